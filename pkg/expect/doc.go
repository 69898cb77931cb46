/*
Package expect drives an interactive child process through a scripted
sequence of expected-output/sent-input exchanges.

The child is spawned under a pseudo-terminal so that programs which
suppress prompts on piped stdio behave as they would for a human
operator. A background drain continuously appends child output to an
append-only accumulator; expects match by substring containment against
the unconsumed portion of that accumulator, consuming the leftmost
occurrence on success so repeated expects require fresh occurrences.

Every expect races three signals: match, the configured per-expect
deadline, and child exit. The first to occur decides the outcome, with
buffer content checked before liveness so a match that raced with exit
still counts.

	res, err := expect.Run(ctx, "python3 quiz.py", domain.Script{
		domain.Expect("Length of side a: "),
		domain.Send("3"),
	})

Sessions own their child exclusively; Close terminates and reaps it on
every exit path.
*/
package expect
