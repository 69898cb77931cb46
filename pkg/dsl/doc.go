/*
Package dsl provides a Go DSL (Domain Specific Language) for programmatically constructing expect scripts.

It allows developers to define automation scripts using a type-safe, fluent builder pattern
instead of relying on external YAML or JSON files. This is particularly useful for dynamic script
generation, unit testing, and leveraging IDE autocompletion/type-checking.

Example usage:

	package main

	import (
		"github.com/aretw0/espalier/pkg/dsl"
	)

	func main() {
		script, err := dsl.New().
			Answer("Length of side a: ", "3").
			Answer("Length of side b: ", "4").
			Expect("hypotenuse").
			Build()
		if err != nil {
			// ...
		}

		// The resulting script can be passed to Harness.RunScript.
		_ = script
	}
*/
package dsl
