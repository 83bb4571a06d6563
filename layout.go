package encrust

import (
	"fmt"
	"reflect"
	"sync"
	"unsafe"
)

// stepKind identifies how one piece of a value is reached
type stepKind uint8

const (
	stepNumeric stepKind = iota // count contiguous numbers of width bytes
	stepString                  // pointee bytes of a string header
	stepArray                   // count elements of a composite type, inline
	stepSlice                   // elements behind a slice header
)

// step locates one protected piece of a value relative to its base address
type step struct {
	kind   stepKind
	offset uintptr
	width  int          // numeric element width
	count  int          // numeric element count or array length
	stride uintptr      // element size for stepArray and stepSlice
	elem   *layout      // element layout for stepArray and stepSlice
	typ    reflect.Type // slice type for stepSlice
}

// layout is the compiled, fixed-order description of a type's protected span
type layout struct {
	steps []step

	// flatWidth is non-zero when the type is a single run of numbers of
	// that width covering the whole value
	flatWidth int
}

var layoutCache sync.Map // reflect.Type -> *layout

// layoutFor returns the cached layout for T
func layoutFor[T any]() (*layout, error) {
	return layoutOf(reflect.TypeFor[T]())
}

// layoutOf returns the cached layout for t, compiling it on first use
func layoutOf(t reflect.Type) (*layout, error) {
	if cached, ok := layoutCache.Load(t); ok {
		return cached.(*layout), nil
	}

	l, err := compileLayout(t, t.String())
	if err != nil {
		return nil, err
	}

	actual, _ := layoutCache.LoadOrStore(t, l)
	return actual.(*layout), nil
}

// compileLayout builds the layout of t. path names t for error messages.
func compileLayout(t reflect.Type, path string) (*layout, error) {
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return numericLayout(int(t.Size()), 1), nil

	case reflect.Complex64, reflect.Complex128:
		// Real and imaginary parts are independent floats
		return numericLayout(int(t.Size())/2, 2), nil

	case reflect.String:
		return &layout{steps: []step{{kind: stepString}}}, nil

	case reflect.Array:
		elem, err := compileLayout(t.Elem(), path+"[]")
		if err != nil {
			return nil, err
		}
		if len(elem.steps) == 0 || t.Len() == 0 {
			return &layout{}, nil
		}
		if elem.flatWidth != 0 {
			per := int(t.Elem().Size()) / elem.flatWidth
			return numericLayout(elem.flatWidth, per*t.Len()), nil
		}
		return &layout{steps: []step{{
			kind:   stepArray,
			count:  t.Len(),
			stride: t.Elem().Size(),
			elem:   elem,
		}}}, nil

	case reflect.Slice:
		elem, err := compileLayout(t.Elem(), path+"[]")
		if err != nil {
			return nil, err
		}
		if len(elem.steps) == 0 {
			return &layout{}, nil
		}
		return &layout{steps: []step{{
			kind:   stepSlice,
			stride: t.Elem().Size(),
			elem:   elem,
			typ:    t,
		}}}, nil

	case reflect.Struct:
		l := &layout{}
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			fl, err := compileLayout(f.Type, path+"."+f.Name)
			if err != nil {
				return nil, err
			}
			for _, s := range fl.steps {
				s.offset += f.Offset
				l.steps = append(l.steps, s)
			}
		}
		return l, nil

	default:
		return nil, &ValidationError{
			Field:   path,
			Value:   t.Kind().String(),
			Message: fmt.Sprintf("kind %s has no fixed byte representation", t.Kind()),
			Err:     ErrUnsupportedType,
		}
	}
}

// numericLayout describes count contiguous numbers of width bytes
func numericLayout(width, count int) *layout {
	return &layout{
		steps:     []step{{kind: stepNumeric, width: width, count: count}},
		flatWidth: width,
	}
}

// walk visits the protected pieces of the value at base in fixed order.
// Strings are passed to str when it is non-nil, otherwise their pointee
// bytes are yielded as a region like everything else.
func (l *layout) walk(base unsafe.Pointer, yield func(Region), str func(*string)) {
	for i := range l.steps {
		s := &l.steps[i]
		p := unsafe.Add(base, s.offset)

		switch s.kind {
		case stepNumeric:
			if yield != nil {
				yield(Region{
					Bytes: unsafe.Slice((*byte)(p), s.width*s.count),
					Width: s.width,
				})
			}

		case stepString:
			sp := (*string)(p)
			if str != nil {
				str(sp)
				continue
			}
			if yield != nil && len(*sp) > 0 {
				yield(Region{
					Bytes: unsafe.Slice(unsafe.StringData(*sp), len(*sp)),
					Width: 1,
				})
			}

		case stepArray:
			for j := 0; j < s.count; j++ {
				s.elem.walk(unsafe.Add(p, uintptr(j)*s.stride), yield, str)
			}

		case stepSlice:
			v := reflect.NewAt(s.typ, p).Elem()
			n := v.Len()
			if n == 0 {
				continue
			}
			data := v.UnsafePointer()
			if s.elem.flatWidth != 0 {
				if yield != nil {
					yield(Region{
						Bytes: unsafe.Slice((*byte)(data), uintptr(n)*s.stride),
						Width: s.elem.flatWidth,
					})
				}
				continue
			}
			for j := 0; j < n; j++ {
				s.elem.walk(unsafe.Add(data, uintptr(j)*s.stride), yield, str)
			}
		}
	}
}

// hasStrings reports whether any step can reach a string
func (l *layout) hasStrings() bool {
	for _, s := range l.steps {
		switch s.kind {
		case stepString:
			return true
		case stepArray, stepSlice:
			if s.elem.hasStrings() {
				return true
			}
		}
	}
	return false
}

// ownStrings replaces every string reachable from base with a copy in a
// buffer from owned, or a fresh one. Buffers in owned that no string uses
// any more are wiped. The returned map holds the buffers now in use.
//
// A string keeps its buffer only if it still starts at that buffer and no
// earlier string in the walk claimed it; aliased or foreign strings are
// copied so masking never touches memory the container does not own.
func (l *layout) ownStrings(base unsafe.Pointer, owned map[*byte][]byte) map[*byte][]byte {
	next := make(map[*byte][]byte, len(owned))

	l.walk(base, nil, func(sp *string) {
		if len(*sp) == 0 {
			return
		}
		p := unsafe.StringData(*sp)
		if buf, ok := owned[p]; ok && len(buf) == len(*sp) {
			if _, claimed := next[p]; !claimed {
				next[p] = buf
				return
			}
		}
		buf := make([]byte, len(*sp))
		copy(buf, *sp)
		*sp = unsafe.String(&buf[0], len(buf))
		next[&buf[0]] = buf
	})

	for p, buf := range owned {
		if _, kept := next[p]; !kept {
			wipeBytes(buf)
		}
	}
	return next
}

// hasSlices reports whether any step can reach a slice
func (l *layout) hasSlices() bool {
	for _, s := range l.steps {
		switch s.kind {
		case stepSlice:
			return true
		case stepArray:
			if s.elem.hasSlices() {
				return true
			}
		}
	}
	return false
}

// sliceArrays appends the element storage, up to length, of every non-empty
// slice reachable from base, outer slices before the slices inside them
func (l *layout) sliceArrays(base unsafe.Pointer, out [][]byte) [][]byte {
	for i := range l.steps {
		s := &l.steps[i]
		p := unsafe.Add(base, s.offset)

		switch s.kind {
		case stepArray:
			if !s.elem.hasSlices() {
				continue
			}
			for j := 0; j < s.count; j++ {
				out = s.elem.sliceArrays(unsafe.Add(p, uintptr(j)*s.stride), out)
			}

		case stepSlice:
			v := reflect.NewAt(s.typ, p).Elem()
			n := v.Len()
			if n == 0 || s.stride == 0 {
				continue
			}
			data := v.UnsafePointer()
			out = append(out, unsafe.Slice((*byte)(data), uintptr(n)*s.stride))
			if s.elem.hasSlices() {
				for j := 0; j < n; j++ {
					out = s.elem.sliceArrays(unsafe.Add(data, uintptr(j)*s.stride), out)
				}
			}
		}
	}
	return out
}

// span is a byte range [lo, hi) relative to the start of one array
type span struct {
	lo, hi uintptr
}

// wipeSuperseded wipes every byte of the arrays in old that no array in
// current covers. Bytes still reachable through current are left alone,
// so reslicing within an adopted array keeps the live part intact.
func wipeSuperseded(old, current [][]byte) {
	for _, o := range old {
		start := uintptr(unsafe.Pointer(unsafe.SliceData(o)))
		end := start + uintptr(len(o))

		free := []span{{0, uintptr(len(o))}}
		for _, c := range current {
			cs := uintptr(unsafe.Pointer(unsafe.SliceData(c)))
			ce := cs + uintptr(len(c))
			if ce <= start || cs >= end {
				continue
			}
			free = cutSpan(free, max(cs, start)-start, min(ce, end)-start)
		}

		for _, f := range free {
			wipeBytes(o[f.lo:f.hi])
		}
	}
}

// cutSpan removes [lo, hi) from spans
func cutSpan(spans []span, lo, hi uintptr) []span {
	out := make([]span, 0, len(spans)+1)
	for _, s := range spans {
		if hi <= s.lo || lo >= s.hi {
			out = append(out, s)
			continue
		}
		if s.lo < lo {
			out = append(out, span{s.lo, lo})
		}
		if hi < s.hi {
			out = append(out, span{hi, s.hi})
		}
	}
	return out
}
