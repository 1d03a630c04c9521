// Package inferkit provides a client for line-streaming text-generation
// servers that expose an Ollama-style generate endpoint.
//
// inferkit is designed to be imported à la carte. Each subpackage can be
// used independently:
//
//   - config: configuration file loading (JSON, YAML, TOML) with
//     defaults, overrides, and hot reload
//   - gen: the generation client with buffered and streaming modes,
//     including the NDJSON stream decoder
//
// # Quick Start
//
// Buffered generation:
//
//	cfg, _ := config.Load("inferkit.json")
//	client := gen.NewClient(cfg)
//	text, _ := client.Generate(ctx, gen.GenerateRequest{
//	    Model:  "llama3",
//	    Prompt: "Hello, world!",
//	})
//
// Streaming generation:
//
//	chunks, _ := client.Stream(ctx, gen.GenerateRequest{
//	    Model:  "llama3",
//	    Prompt: "Hello, world!",
//	})
//	for chunk := range chunks {
//	    fmt.Print(chunk.Content)
//	}
//
// # Design Philosophy
//
// inferkit follows these principles:
//
//   - One HTTP exchange per call, no hidden retries or queuing
//   - Explicit decoder state machine with guaranteed resource release
//   - Sensible defaults with full configurability
//   - Structured error types rather than formatted text
package inferkit
