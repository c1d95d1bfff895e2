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


// Package rank implements the hybrid scoring and ranking engine.
//
// The Ranker combines:
//   - cosine similarity between the query embedding and each catalog item's
//     cached embedding
//   - deterministic additive boosts for location, duration, stipend range,
//     and deadline recency
//
// Items are sorted by adjusted score (stable, so catalog order breaks ties),
// truncated to top-K, and classified into a confidence tier from the best
// score. The whole pipeline is stateless and idempotent for a fixed catalog,
// cache, and query.
package rank
