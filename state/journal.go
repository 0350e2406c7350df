// Copyright (c) 2026 The Lockup developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

// journal maintains maps in a stack.
// Each level inherits key/value of the level below it, acting as a map
// with save-restore/snapshot-revert manner.
type journal struct {
	src            getterFunc
	levels         []*level
	keyRevisionMap map[any][]int
}

type level struct {
	kvs     map[any]any
	entries []*journalEntry
}

// journalEntry an ordered record of one Put.
type journalEntry struct {
	key   any
	value any
}

// getterFunc defines getter method of the underlying data source.
type getterFunc func(key any) (value any, exist bool, err error)

func newJournal(src getterFunc) *journal {
	return &journal{
		src:            src,
		keyRevisionMap: make(map[any][]int),
	}
}

// Depth returns depth of stack.
func (j *journal) Depth() int {
	return len(j.levels)
}

// Push pushes a new level on stack.
// It returns stack depth before push.
func (j *journal) Push() int {
	j.levels = append(j.levels, &level{kvs: make(map[any]any)})
	return len(j.levels) - 1
}

// Pop pops the level at top of stack.
// It reverts all Put operations since the last Push.
func (j *journal) Pop() {
	top := j.levels[len(j.levels)-1]
	for key := range top.kvs {
		revs := j.keyRevisionMap[key]
		revs = revs[:len(revs)-1]
		if len(revs) == 0 {
			delete(j.keyRevisionMap, key)
		} else {
			j.keyRevisionMap[key] = revs
		}
	}
	j.levels = j.levels[:len(j.levels)-1]
}

// PopTo pops levels until stack depth reaches depth.
func (j *journal) PopTo(depth int) {
	for len(j.levels) > depth {
		j.Pop()
	}
}

// Get gets value for given key.
// The second return value indicates whether the given key is found.
func (j *journal) Get(key any) (any, bool, error) {
	if revs, ok := j.keyRevisionMap[key]; ok {
		lvl := j.levels[revs[len(revs)-1]]
		if v, ok := lvl.kvs[key]; ok {
			return v, true, nil
		}
	}
	return j.src(key)
}

// Put puts key value into the level at stack top.
// It panics if stack is empty.
func (j *journal) Put(key, value any) {
	top := j.levels[len(j.levels)-1]
	top.kvs[key] = value
	top.entries = append(top.entries, &journalEntry{key: key, value: value})

	// record key revision for fast access
	rev := len(j.levels) - 1
	j.keyRevisionMap[key] = append(j.keyRevisionMap[key], rev)
}

// Journal returns entries of all Put operations in order.
func (j *journal) Journal() (entries []*journalEntry) {
	for _, lvl := range j.levels {
		entries = append(entries, lvl.entries...)
	}
	return
}
