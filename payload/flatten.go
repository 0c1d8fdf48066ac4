package payload

import "strconv"

type Pair struct {
	Key   string
	Value string
}

// Pairs is an ordered association list. Order matters to substitution, so
// it is never backed by a Go map.
type Pairs []Pair

func (p Pairs) Get(key string) (string, bool) {
	for _, pair := range p {
		if pair.Key == key {
			return pair.Value, true
		}
	}
	return "", false
}

// Set overwrites an existing key in place, or appends it.
func (p *Pairs) Set(key, value string) {
	for i := range *p {
		if (*p)[i].Key == key {
			(*p)[i].Value = value
			return
		}
	}
	*p = append(*p, Pair{key, value})
}

// Merge sets every pair of other, in order, with the semantics of Set.
func (p *Pairs) Merge(other Pairs) {
	index := make(map[string]int, len(*p))
	for i, pair := range *p {
		if _, seen := index[pair.Key]; !seen {
			index[pair.Key] = i
		}
	}
	for _, pair := range other {
		if i, seen := index[pair.Key]; seen {
			(*p)[i].Value = pair.Value
			continue
		}
		index[pair.Key] = len(*p)
		*p = append(*p, pair)
	}
}

func (p Pairs) Keys() []string {
	keys := make([]string, len(p))
	for i, pair := range p {
		keys[i] = pair.Key
	}
	return keys
}

// Flatten walks a container value and returns one pair per leaf, keyed by
// the dotted path below prefix. Empty containers yield "". A scalar root
// yields nothing. When two paths produce the same key, as `{"a.b":1}` and
// `{"a":{"b":2}}` do, the later leaf wins at the earlier position.
func Flatten(v Value, prefix string) Pairs {
	f := flattener{out: Pairs{}, index: map[string]int{}}
	switch v.kind {
	case ListKind, MapKind:
		f.walk(v, prefix)
	}
	return f.out
}

type flattener struct {
	out   Pairs
	index map[string]int
}

func (f *flattener) set(key, value string) {
	if i, seen := f.index[key]; seen {
		f.out[i].Value = value
		return
	}
	f.index[key] = len(f.out)
	f.out = append(f.out, Pair{key, value})
}

func (f *flattener) walk(v Value, prefix string) {
	switch v.kind {
	case ListKind:
		for i, item := range v.list {
			f.child(item, join(prefix, strconv.Itoa(i)))
		}
	case MapKind:
		for _, m := range v.members {
			f.child(m.Value, join(prefix, m.Key))
		}
	}
}

func (f *flattener) child(v Value, key string) {
	switch v.kind {
	case ListKind, MapKind:
		if v.Len() == 0 {
			f.set(key, "")
			return
		}
		f.walk(v, key)
	default:
		f.set(key, v.String())
	}
}

func join(prefix, segment string) string {
	if prefix == "" {
		return segment
	}
	return prefix + "." + segment
}
