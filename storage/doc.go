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


// Package storage provides the persistence abstraction for the vector cache.
//
// It defines the VectorRepository interface that decouples the cache builder
// from the storage backend, plus the binary serialization of cache entries.
//
// # Constructor Return Type Pattern
//
// Public backend constructors return the storage.VectorRepository interface
// to prevent accidental coupling to BadgerDB specifics:
//
//	repo, err := badger.NewVectorRepository(backend)
//
// # Recoverability
//
// A stored entry that fails to deserialize is reported as missing, never as
// an error: the cache self-heals by re-embedding that item instead of
// aborting the run. Only backend-level failures propagate.
//
// # Thread Safety
//
// Implementations must be thread-safe. Reads may run concurrently; writes
// of one build batch happen in a single transaction.
package storage
