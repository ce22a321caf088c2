// Package graph implements an ordered plugin-node chain (spec §4.9, C9):
// a Track holds instances in insertion order and processes one block by
// running each node in turn, handing audio and events from one node to
// the next via audio.ProcessContext.AdvanceToNextNode.
//
// Grounded on the teacher's (shaban/macaudio) avaudio/pluginchain/chain.go
// (AddEffect/InsertEffect/RemoveEffect/MoveEffect/SwapEffects over an
// ordered effect list) and its pure-Go counterpart engine/plugins.go's
// PluginChain, generalized from a hard-coded AVAudioEngine node chain to
// the format-agnostic instancing.Instancing nodes this module's C6 state
// machine produces.
package graph

import (
	"sync"

	"github.com/shaban/pluginhost/audio"
	"github.com/shaban/pluginhost/instance"
	"github.com/shaban/pluginhost/instancing"
	"github.com/shaban/pluginhost/status"
)

// Node is one plugin slot in a track's chain.
type Node struct {
	ID       string
	Instance *instancing.Instancing
	Bypassed bool
	Frozen   bool // frozen nodes are skipped entirely, including event routing
}

// Track is an ordered, insertion-order list of plugin nodes plus the
// bypass/freeze flags spec §4.9 requires per node. Structural mutation
// (Add/Insert/Remove/Move) is only valid while the track is not
// currently processing a block.
type Track struct {
	mu    sync.Mutex
	nodes []*Node

	processing bool
}

// NewTrack returns an empty track.
func NewTrack() *Track { return &Track{} }

// AddNode appends node to the end of the chain.
func (t *Track) AddNode(n *Node) status.Code {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.processing {
		return status.AlreadyInvalidState
	}
	t.nodes = append(t.nodes, n)
	return status.OK
}

// InsertNode inserts node at position idx, shifting subsequent nodes
// right. idx is clamped to [0, len(nodes)].
func (t *Track) InsertNode(idx int, n *Node) status.Code {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.processing {
		return status.AlreadyInvalidState
	}
	if idx < 0 {
		idx = 0
	}
	if idx > len(t.nodes) {
		idx = len(t.nodes)
	}
	t.nodes = append(t.nodes, nil)
	copy(t.nodes[idx+1:], t.nodes[idx:])
	t.nodes[idx] = n
	return status.OK
}

// RemoveNode removes the node with the given ID, if present.
func (t *Track) RemoveNode(id string) status.Code {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.processing {
		return status.AlreadyInvalidState
	}
	for i, n := range t.nodes {
		if n.ID == id {
			t.nodes = append(t.nodes[:i], t.nodes[i+1:]...)
			return status.OK
		}
	}
	return status.InvalidParameterOperation
}

// MoveNode relocates the node at fromIdx to toIdx.
func (t *Track) MoveNode(fromIdx, toIdx int) status.Code {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.processing {
		return status.AlreadyInvalidState
	}
	if fromIdx < 0 || fromIdx >= len(t.nodes) || toIdx < 0 || toIdx >= len(t.nodes) {
		return status.InvalidParameterOperation
	}
	n := t.nodes[fromIdx]
	t.nodes = append(t.nodes[:fromIdx], t.nodes[fromIdx+1:]...)
	t.nodes = append(t.nodes[:toIdx], append([]*Node{n}, t.nodes[toIdx:]...)...)
	return status.OK
}

// Nodes returns the current chain in processing order. The returned
// slice is owned by the track; callers must not mutate it directly.
func (t *Track) Nodes() []*Node {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.nodes
}

// ProcessAudio runs every node in chain order against ctx: it clears
// outputs once, then for each node calls Process and hands its
// outputs/eventOut to the next node via AdvanceToNextNode. It drains no
// pending-event queue and does no per-group event routing: the first
// node sees whatever ctx's EventIn already holds, and each later node
// sees only what the node before it emitted. Bypassed nodes pass audio through
// unmodified (AdvanceToNextNode still runs so downstream nodes see the
// same buffers); frozen nodes are skipped entirely, including event
// delivery, so they neither hear nor emit events this block.
func (t *Track) ProcessAudio(ctx *audio.ProcessContext) status.Code {
	t.mu.Lock()
	if t.processing {
		t.mu.Unlock()
		return status.AlreadyInvalidState
	}
	t.processing = true
	nodes := t.nodes
	t.mu.Unlock()
	defer func() {
		t.mu.Lock()
		t.processing = false
		t.mu.Unlock()
	}()

	ctx.ClearAudioOutputs()

	worst := status.OK
	for _, n := range nodes {
		if n.Frozen {
			continue
		}
		if !n.Bypassed {
			code := n.Instance.WithInstance(func(inst instance.Instance) status.Code {
				return inst.Process(ctx)
			})
			if code != status.OK && worst == status.OK {
				worst = code
			}
		}
		ctx.AdvanceToNextNode()
	}
	return worst
}
