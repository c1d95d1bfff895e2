// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package ai abstracts the embedding provider used by internmatch.
//
// The ranking core and the vector cache depend only on the Embedder
// interface; the concrete backend is injected at construction time. This
// keeps the provider an explicitly constructed dependency with its own
// lifecycle instead of a process-wide singleton.
//
// # Implementation Packages
//
//   - ai/openai: production implementation for OpenAI-compatible APIs
//     (Ollama, LocalAI, vLLM, OpenAI itself)
//   - ai/mock: deterministic test double with behavior injection and call
//     counting
//
// Production constructors return the Embedder interface to prevent coupling
// to a concrete backend; mock constructors return the concrete type so tests
// can inject behavior and assert on call counts.
package ai
