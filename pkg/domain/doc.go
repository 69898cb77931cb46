/*
Package domain contains the core domain models for the Espalier harness.

It defines the automation vocabulary shared by the engine, the stores, and
the protocol adapters. This package is kept pure and free of external
dependencies like I/O or persistence, following Hexagonal Architecture
principles.

# Key Entities

  - ScriptAction: one expect/send step of an automation script.
  - Script: the ordered sequence of actions consumed by a single run.
  - Result: the terminal record of a run (status, events, captured output).
  - Transcript: the persisted envelope wrapping a Result for storage.
*/
package domain
