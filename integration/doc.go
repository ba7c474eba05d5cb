// Package integration provides optional, non-core submission adapters in
// front of a Pool: a channel-fed feed, a batching submitter, and a
// rate-limited submitter. None of these change the Pool's own semantics —
// each adapter only ever calls Pool.Submit or Pool.SubmitEmpty — they exist
// purely to cover common ways work arrives at a pool in practice (draining
// a channel, collapsing bursts into batches, shedding load past a rate
// limit) without baking any of that policy into the core dispatcher/worker
// pipeline.
package integration
