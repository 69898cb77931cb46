/*
Package ports defines the interfaces (Ports) that connect the Espalier
harness to its adapters, following Hexagonal Architecture.

The harness core depends only on these contracts; storage backends live
in pkg/adapters and are verified against the exported contract suite.
*/
package ports
