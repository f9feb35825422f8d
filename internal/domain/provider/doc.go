// Package provider maps chat-site identifiers to base URLs and infers a
// provider from an arbitrary URL.
//
// Inference tests an ordered list of host patterns and the first match
// wins. A URL that matches nothing is identified by its bare hostname, and
// a string that does not parse as a URL by itself, so Infer never fails.
//
// The built-in table can be extended or overridden from a YAML, TOML or
// JSON file:
//
//	providers:
//	  - id: mistral
//	    name: Le Chat
//	    baseUrl: https://chat.mistral.ai/chat
//	    hosts: ['(^|\.)chat\.mistral\.ai$']
package provider
