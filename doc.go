/*
Package espalier is a scripted terminal automation engine. It spawns a
command under a pseudo-terminal, plays an ordered script of expect and
send actions against its output, and records everything that happened
as a transcript.

It implements the classic expect loop with exact-substring matching:
each expect action waits until its text appears in the portion of
output not yet consumed by an earlier match, and each send action types
a line into the terminal as if a user had. Runs end with a terminal
status (completed, timed-out, process-exited, action-failed or
canceled) and always carry the full raw output captured so far.

# Architecture

The engine core lives in pkg/expect and knows nothing about servers.
The Harness in this package wires it to the ambient concerns a server
needs: a shell runner with a configurable command blocklist, transcript
persistence behind the ports.TranscriptStore interface (in-memory,
JSON-file and Redis adapters are provided), structured logging and
Prometheus metrics. The MCP and HTTP adapters expose the same harness
over different transports.

# Usage

	package main

	import (
		"context"
		"fmt"
		"log"

		"github.com/aretw0/espalier"
		"github.com/aretw0/espalier/pkg/domain"
	)

	func main() {
		h := espalier.New()

		script := domain.Script{
			domain.Expect("login: "),
			domain.Send("admin"),
			domain.Expect("password: "),
			domain.Send("hunter2"),
			domain.Expect("$ "),
		}

		transcript, err := h.RunScript(context.Background(), "ssh demo@host", script)
		if err != nil {
			log.Fatal(err)
		}

		fmt.Println(transcript.Result.Status)
		fmt.Println(transcript.Result.Output)
	}
*/
package espalier
