package warehouse

import (
	"reflect"
	"sync"
	"sync/atomic"

	"github.com/kamstrup/intmap"
)

// Category classifies a registered component kind.
type Category int

const (
	// None is reserved for the unregistered sentinel; never returned by TypeOf.
	None Category = iota
	Managed
	Unmanaged
	Tag
)

// ComponentType is the process-wide registered descriptor for one kind of
// component. Two ComponentType values are equal iff their ids are equal.
type ComponentType struct {
	runtimeType reflect.Type
	id          uint32
	size        uintptr
	category    Category
}

// ID returns the dense, process-lifetime-stable identifier for this kind.
func (c ComponentType) ID() uint32 { return c.id }

// Size returns the size in bytes of one component value.
func (c ComponentType) Size() uintptr { return c.size }

// Category returns this kind's classification.
func (c ComponentType) Category() Category { return c.category }

// RuntimeType returns the reflect.Type this descriptor was registered from.
func (c ComponentType) RuntimeType() reflect.Type { return c.runtimeType }

// Less orders first by category ordinal, then by id.
func (c ComponentType) Less(other ComponentType) bool {
	if c.category != other.category {
		return c.category < other.category
	}
	return c.id < other.id
}

// Equal reports whether two descriptors are the same registered kind.
func (c ComponentType) Equal(other ComponentType) bool {
	return c.id == other.id
}

var (
	nextComponentID  atomic.Uint32
	componentEntries sync.Map // reflect.Type -> *ComponentType
	componentReverse = intmap.New[uint32, *ComponentType](64)
	reverseMu        sync.Mutex
)

// TypeOf registers (idempotently) and returns the ComponentType for T. It is
// safe to call concurrently from any number of goroutines for any number of
// distinct kinds; the same instance is returned for every subsequent call
// with the same T, for the life of the process.
func TypeOf[T any]() ComponentType {
	var zero T
	rt := reflect.TypeOf(zero)
	if rt == nil {
		// T is an interface type instantiated with a nil value; fall back to
		// the static type via reflect on a pointer so distinct interface
		// instantiations still register distinct descriptors.
		rt = reflect.TypeOf((*T)(nil)).Elem()
	}

	if existing, ok := componentEntries.Load(rt); ok {
		return *existing.(*ComponentType)
	}

	// Allocate and stamp the id before publishing so no goroutine can ever
	// observe a *ComponentType via Load/LoadOrStore with id still zero. A
	// losing race wastes an id, which is cheap next to a torn read.
	id := nextComponentID.Add(1) - 1
	if id >= 1<<31 {
		panic(AddTrace(fatalError{"component id space exhausted"}))
	}
	created := &ComponentType{
		runtimeType: rt,
		category:    categoryOf(rt),
		size:        rt.Size(),
		id:          id,
	}
	actual, loaded := componentEntries.LoadOrStore(rt, created)
	entry := actual.(*ComponentType)
	if !loaded {
		reverseMu.Lock()
		componentReverse.Put(id, entry)
		reverseMu.Unlock()
	}
	return *entry
}

// LookupByID returns the descriptor registered with the given id, if any.
// Backed by intmap for an O(1) integer-keyed reverse lookup.
func LookupByID(id uint32) (ComponentType, bool) {
	reverseMu.Lock()
	defer reverseMu.Unlock()
	ct, ok := componentReverse.Get(id)
	if !ok {
		return ComponentType{}, false
	}
	return *ct, true
}

// categoryOf computes a kind's category once, from its static shape:
// contains-references => Managed; else size>0 or has fields => Unmanaged;
// else a zero-sized marker => Tag.
func categoryOf(rt reflect.Type) Category {
	if containsReferences(rt) {
		return Managed
	}
	if rt.Size() > 0 || rt.NumField() > 0 {
		return Unmanaged
	}
	return Tag
}

func containsReferences(rt reflect.Type) bool {
	switch rt.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Chan, reflect.Func, reflect.Slice, reflect.String, reflect.UnsafePointer:
		return true
	case reflect.Array:
		return containsReferences(rt.Elem())
	case reflect.Struct:
		for i := 0; i < rt.NumField(); i++ {
			if containsReferences(rt.Field(i).Type) {
				return true
			}
		}
		return false
	default:
		return false
	}
}
