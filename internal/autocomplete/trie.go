// Package autocomplete completes ledger account names from a radix trie.
package autocomplete

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strings"
)

type node struct {
	label    string
	children []*node // sorted by first byte of label
	terminal bool
}

func (n *node) child(b byte) (*node, int) {
	i := sort.Search(len(n.children), func(i int) bool { return n.children[i].label[0] >= b })
	if i < len(n.children) && n.children[i].label[0] == b {
		return n.children[i], i
	}
	return nil, i
}

// Trie is a compressed prefix tree: each edge carries the longest run of
// characters shared by every word below it.
type Trie struct {
	root node
	size int
}

func New(words ...string) *Trie {
	t := &Trie{}
	for _, w := range words {
		t.Insert(w)
	}
	return t
}

// Len is the number of distinct words stored.
func (t *Trie) Len() int { return t.size }

// Insert adds word and reports whether it was new. Empty words are ignored.
func (t *Trie) Insert(word string) bool {
	if word == "" {
		return false
	}
	n, rest := &t.root, word
	for {
		if rest == "" {
			if n.terminal {
				return false
			}
			n.terminal = true
			t.size++
			return true
		}
		c, i := n.child(rest[0])
		if c == nil {
			leaf := &node{label: rest, terminal: true}
			n.children = append(n.children, nil)
			copy(n.children[i+1:], n.children[i:])
			n.children[i] = leaf
			t.size++
			return true
		}
		common := commonPrefix(c.label, rest)
		if common < len(c.label) {
			tail := &node{label: c.label[common:], children: c.children, terminal: c.terminal}
			c.label = c.label[:common]
			c.children = []*node{tail}
			c.terminal = false
		}
		n, rest = c, rest[common:]
	}
}

// Contains reports whether word was inserted.
func (t *Trie) Contains(word string) bool {
	n, rest := &t.root, word
	for rest != "" {
		c, _ := n.child(rest[0])
		if c == nil || !strings.HasPrefix(rest, c.label) {
			return false
		}
		n, rest = c, rest[len(c.label):]
	}
	return n.terminal
}

// Complete extends partial as far as it is unambiguous: through the rest of the
// matching edge, then down every single-child chain until a fork or a complete
// word. A partial that matches nothing is returned unchanged.
func (t *Trie) Complete(partial string) string {
	n, rest, out := &t.root, partial, partial
	for rest != "" {
		c, _ := n.child(rest[0])
		if c == nil {
			return partial
		}
		common := commonPrefix(c.label, rest)
		if common == len(rest) {
			out += c.label[common:]
			n = c
			break
		}
		if common < len(c.label) {
			return partial
		}
		n, rest = c, rest[common:]
	}
	for !n.terminal && len(n.children) == 1 {
		n = n.children[0]
		out += n.label
	}
	return out
}

func commonPrefix(a, b string) int {
	i := 0
	for i < len(a) && i < len(b) && a[i] == b[i] {
		i++
	}
	return i
}

var accountDirective = regexp.MustCompile(`^account\s+(.+)$`)

// LoadAccounts builds a trie from the `account NAME` directives of a ledger
// file. Trailing `;` comments are dropped.
func LoadAccounts(r io.Reader) (*Trie, error) {
	t := New()
	sc := bufio.NewScanner(r)
	for line := 1; sc.Scan(); line++ {
		m := accountDirective.FindStringSubmatch(strings.TrimRight(sc.Text(), " \t\r"))
		if m == nil {
			continue
		}
		name, _, _ := strings.Cut(m[1], ";")
		if name = strings.TrimSpace(name); name != "" {
			t.Insert(name)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read accounts: %w", err)
	}
	return t, nil
}
