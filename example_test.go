package espalier_test

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/aretw0/espalier"
	"github.com/aretw0/espalier/pkg/domain"
)

// ExampleHarness_RunScript drives a small interactive shell snippet:
// wait for its prompt, answer it, and wait for the reply.
func ExampleHarness_RunScript() {
	h := espalier.New()

	script := domain.Script{
		domain.Expect("tell me: "),
		domain.Send("hello"),
		domain.Expect("got hello"),
	}

	transcript, err := h.RunScript(context.Background(),
		`printf "tell me: "; read reply; printf "got %s\n" "$reply"`, script)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println("status:", transcript.Result.Status)
	fmt.Println("replied:", strings.Contains(transcript.Result.Output, "got hello"))
	// Output:
	// status: completed
	// replied: true
}

// ExampleHarness_ExecCommand runs a one-shot command through the
// blocklist-guarded shell runner.
func ExampleHarness_ExecCommand() {
	h := espalier.New()

	result, err := h.ExecCommand(context.Background(), "echo espalier")
	if err != nil {
		log.Fatal(err)
	}

	fmt.Print(result.Stdout)
	fmt.Println("exit:", result.ExitCode)
	// Output:
	// espalier
	// exit: 0
}
