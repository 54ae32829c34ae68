package gazetteer

// automaton is a byte-level Aho-Corasick trie over lowercased phrases.
// Each node carries a dense 256-way transition table so the scan loop never hits a map

const noEdge = -1

type node struct {
	next [256]int32
	fail int32
	out  []int32 // entry ids whose phrase ends here
}

type automaton struct {
	nodes []node
}

func newNode() node {
	var n node
	for i := range n.next {
		n.next[i] = noEdge
	}
	return n
}

func newAutomaton() *automaton {
	return &automaton{nodes: []node{newNode()}}
}

func (a *automaton) add(phrase []byte, id int32) {
	if len(phrase) == 0 {
		return
	}
	cur := int32(0)
	for _, b := range phrase {
		nxt := a.nodes[cur].next[b]
		if nxt == noEdge {
			nxt = int32(len(a.nodes))
			a.nodes[cur].next[b] = nxt
			a.nodes = append(a.nodes, newNode())
		}
		cur = nxt
	}
	a.nodes[cur].out = append(a.nodes[cur].out, id)
}

// build wires failure links breadth first and merges outputs along them
func (a *automaton) build() {
	queue := make([]int32, 0, len(a.nodes))
	for b := 0; b < 256; b++ {
		if s := a.nodes[0].next[b]; s != noEdge {
			a.nodes[s].fail = 0
			queue = append(queue, s)
		}
	}
	for qi := 0; qi < len(queue); qi++ {
		r := queue[qi]
		for b := 0; b < 256; b++ {
			s := a.nodes[r].next[b]
			if s == noEdge {
				continue
			}
			queue = append(queue, s)

			f := a.nodes[r].fail
			for f != 0 && a.nodes[f].next[b] == noEdge {
				f = a.nodes[f].fail
			}
			if nxt := a.nodes[f].next[b]; nxt != noEdge && nxt != s {
				a.nodes[s].fail = nxt
			}
			a.nodes[s].out = append(a.nodes[s].out, a.nodes[a.nodes[s].fail].out...)
		}
	}
}

// scan calls fn(end, id) for every phrase occurrence; fn returning false stops the scan
func (a *automaton) scan(text []byte, fn func(end int, id int32) bool) {
	state := int32(0)
	for i, b := range text {
		for state != 0 && a.nodes[state].next[b] == noEdge {
			state = a.nodes[state].fail
		}
		if nxt := a.nodes[state].next[b]; nxt != noEdge {
			state = nxt
		}
		for _, id := range a.nodes[state].out {
			if !fn(i+1, id) {
				return
			}
		}
	}
}
