package enum

import (
	"fmt"

	"github.com/yanun0323/errors"
)

var ErrUnknownEnum = errors.New("enum: unknown name")

const unknownName = "UNKNOWN"

// names is the single name table of an enum. Every value between the begin
// and end sentinels owns exactly one name, and every name maps back to
// exactly one value.
type names[T ~uint8] struct {
	kind    string
	byValue []string
	byName  map[string]T
	values  []T
}

func newNames[T ~uint8](kind string, beg, end T, list ...string) names[T] {
	if int(end)-int(beg)-1 != len(list) {
		panic(fmt.Sprintf("enum: %s table has %d names for %d values", kind, len(list), int(end)-int(beg)-1))
	}

	n := names[T]{
		kind:    kind,
		byValue: make([]string, int(end)),
		byName:  make(map[string]T, len(list)),
		values:  make([]T, 0, len(list)),
	}
	for i, s := range list {
		v := beg + 1 + T(i)
		if _, dup := n.byName[s]; dup {
			panic(fmt.Sprintf("enum: %s name %q is used twice", kind, s))
		}
		n.byValue[v] = s
		n.byName[s] = v
		n.values = append(n.values, v)
	}
	return n
}

func (n names[T]) name(v T) string {
	if int(v) < len(n.byValue) && n.byValue[v] != "" {
		return n.byValue[v]
	}
	return unknownName
}

func (n names[T]) parse(s string) (T, error) {
	v, ok := n.byName[s]
	if !ok {
		return 0, fmt.Errorf("%w: %s %q", ErrUnknownEnum, n.kind, s)
	}
	return v, nil
}

func (n names[T]) all() []T {
	out := make([]T, len(n.values))
	copy(out, n.values)
	return out
}
