package lattice

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
)

// ErrUnregistered is returned by the registry decode methods when a name has
// no registration and the registry is in strict mode.
var ErrUnregistered = errors.New("name not registered")

// Attribute is a one-shot mutation applied to a live node when it is spawned.
// Apply runs only after the node's full subtree exists, so an attribute may
// safely navigate to sibling, child, or parent live nodes.
type Attribute interface {
	Apply(node *Node)
}

// AttributeReverter is an optional extension of Attribute that can undo its
// effect. Editors use it; the engine itself never calls Revert.
type AttributeReverter interface {
	Attribute
	Revert(node *Node)
}

// AnimationTarget is a continuously interpolated animatable value.
//
// Interpolate receives prev == nil only for the very first keyframe of a
// channel. In that case the target must act as if progress were 1 against no
// prior state, i.e. snap to its own authored value, so that it never
// interpolates from an undefined baseline.
type AnimationTarget interface {
	Interpolate(prev AnimationTarget, node *Node, progress float64)
}

// DependencyVisitor is an optional interface for attributes and animation
// targets that reference other assets. VisitDependencies reports every asset
// path the value depends on so the spawner can decide whether a layout's
// dependency closure is fully loaded.
type DependencyVisitor interface {
	VisitDependencies(visit func(path string))
}

// DependencyInitializer is an optional interface for attributes and
// animation targets that resolve asset handles at load time.
type DependencyInitializer interface {
	InitializeDependencies(ctx *LoadContext)
}

// DynamicAttribute is a named, type-erased container over one registered
// Attribute value. It is owned exclusively by the LayoutNode that holds it.
type DynamicAttribute struct {
	name  string
	value Attribute
}

// NewDynamicAttribute wraps an attribute value constructed in code, bypassing
// deserialization. The asset loader normally goes through
// Registry.DecodeAttribute instead.
func NewDynamicAttribute(name string, value Attribute) *DynamicAttribute {
	return &DynamicAttribute{name: name, value: value}
}

// Name returns the registered name this attribute was decoded under.
func (d *DynamicAttribute) Name() string { return d.name }

// Value returns the concrete attribute for inspection or downcasting.
func (d *DynamicAttribute) Value() Attribute { return d.value }

// Apply forwards to the underlying attribute.
func (d *DynamicAttribute) Apply(node *Node) { d.value.Apply(node) }

func (d *DynamicAttribute) visitDependencies(visit func(path string)) {
	if v, ok := d.value.(DependencyVisitor); ok {
		v.VisitDependencies(visit)
	}
}

func (d *DynamicAttribute) initializeDependencies(ctx *LoadContext) {
	if v, ok := d.value.(DependencyInitializer); ok {
		v.InitializeDependencies(ctx)
	}
}

// DynamicAnimationTarget is a named, type-erased container over one
// registered AnimationTarget value. Keyframes own their target exclusively.
type DynamicAnimationTarget struct {
	name  string
	typ   reflect.Type
	value AnimationTarget
}

// NewDynamicAnimationTarget wraps an animation target value constructed in
// code, bypassing deserialization.
func NewDynamicAnimationTarget(name string, value AnimationTarget) *DynamicAnimationTarget {
	typ := reflect.TypeOf(value)
	if _, ok := value.(*UnregisteredData); ok {
		typ = unregisteredType(name)
	}
	return &DynamicAnimationTarget{name: name, typ: typ, value: value}
}

// Name returns the registered name this target was decoded under.
func (d *DynamicAnimationTarget) Name() string { return d.name }

// TargetType returns the concrete type identity used for channel grouping.
func (d *DynamicAnimationTarget) TargetType() reflect.Type { return d.typ }

// Value returns the concrete target for inspection or downcasting.
func (d *DynamicAnimationTarget) Value() AnimationTarget { return d.value }

// InterpolateFromStart renders the target with no prior keyframe.
func (d *DynamicAnimationTarget) InterpolateFromStart(node *Node, progress float64) {
	d.value.Interpolate(nil, node, progress)
}

// InterpolateWithPrevious interpolates from prev's value toward this one.
// Both targets must hold the same concrete type; a mismatch means the
// channel-grouping invariant was broken upstream and is treated as data
// corruption.
func (d *DynamicAnimationTarget) InterpolateWithPrevious(prev *DynamicAnimationTarget, node *Node, progress float64) {
	if prev.typ != d.typ {
		panic(fmt.Sprintf("lattice: interpolating mismatched target types: expected %v, got %v", d.typ, prev.typ))
	}
	d.value.Interpolate(prev.value, node, progress)
}

func (d *DynamicAnimationTarget) visitDependencies(visit func(path string)) {
	if v, ok := d.value.(DependencyVisitor); ok {
		v.VisitDependencies(visit)
	}
}

func (d *DynamicAnimationTarget) initializeDependencies(ctx *LoadContext) {
	if v, ok := d.value.(DependencyInitializer); ok {
		v.InitializeDependencies(ctx)
	}
}

// UnregisteredData is the lenient-mode stand-in for an attribute or
// animation target whose name has no registration in the current binary.
// It preserves the raw serialized payload losslessly and has no runtime
// effect. Tooling uses this to inspect assets authored against attributes it
// does not compile in.
type UnregisteredData struct {
	Name string
	Raw  jsontext.Value
}

// Apply implements Attribute as a no-op.
func (*UnregisteredData) Apply(*Node) {}

// Interpolate implements AnimationTarget as a no-op.
func (*UnregisteredData) Interpolate(AnimationTarget, *Node, float64) {}

// unregisteredType returns a distinct type identity per unregistered name,
// so keyframes of two different unknown targets never collapse into one
// channel. reflect.StructOf canonicalizes, so the same name always yields
// the identical reflect.Type.
func unregisteredType(name string) reflect.Type {
	return reflect.StructOf([]reflect.StructField{{
		Name: "Raw",
		Type: reflect.TypeOf(jsontext.Value(nil)),
		Tag:  reflect.StructTag(`lattice:"` + name + `"`),
	}})
}

// RegistryOptions configures how a Registry treats names that were never
// registered. Strict (the zero value) fails the decode, which in turn fails
// the whole asset load; lenient substitutes an UnregisteredData passthrough.
type RegistryOptions struct {
	LenientAttributes bool
	LenientAnimations bool
}

type attributeEntry struct {
	decode func(name string, raw jsontext.Value) (*DynamicAttribute, error)
}

type animationEntry struct {
	decode func(name string, raw jsontext.Value) (*DynamicAnimationTarget, error)
}

// Registry maps attribute and animation-target names to deserialization
// functions bound to concrete Go types. Hosts register every name before
// loading any asset that references it; re-registering a name overwrites the
// previous entry and there is no unregister.
//
// The registry is passed explicitly to the loader and the scene; there is no
// package-level instance.
type Registry struct {
	opts       RegistryOptions
	attributes map[string]attributeEntry
	animations map[string]animationEntry
}

// NewRegistry creates an empty registry with the built-in animation targets
// (Position, Size, Rotation, Color) and attributes (Tint, Hidden)
// pre-registered.
func NewRegistry(opts RegistryOptions) *Registry {
	r := &Registry{
		opts:       opts,
		attributes: make(map[string]attributeEntry),
		animations: make(map[string]animationEntry),
	}
	registerBuiltins(r)
	return r
}

// attrPtr constrains PT to be *T implementing Attribute, so a decode
// function can allocate and unmarshal the concrete type.
type attrPtr[T any] interface {
	*T
	Attribute
}

type targetPtr[T any] interface {
	*T
	AnimationTarget
}

// RegisterAttribute binds name to the concrete attribute type *T. The
// generated decode function unmarshals the raw payload into a fresh T.
func RegisterAttribute[T any, PT attrPtr[T]](r *Registry, name string) {
	r.attributes[name] = attributeEntry{
		decode: func(name string, raw jsontext.Value) (*DynamicAttribute, error) {
			v := PT(new(T))
			if err := json.Unmarshal(raw, v); err != nil {
				return nil, err
			}
			return &DynamicAttribute{name: name, value: v}, nil
		},
	}
}

// RegisterAnimationTarget binds name to the concrete animation target type
// *T. The generated decode function unmarshals the raw payload into a
// fresh T.
func RegisterAnimationTarget[T any, PT targetPtr[T]](r *Registry, name string) {
	r.animations[name] = animationEntry{
		decode: func(name string, raw jsontext.Value) (*DynamicAnimationTarget, error) {
			v := PT(new(T))
			if err := json.Unmarshal(raw, v); err != nil {
				return nil, err
			}
			return &DynamicAnimationTarget{name: name, typ: reflect.TypeOf(v), value: v}, nil
		},
	}
}

// DecodeAttribute decodes the serialized payload for the named attribute.
// Unknown names fail with ErrUnregistered in strict mode and produce an
// UnregisteredData passthrough in lenient mode.
func (r *Registry) DecodeAttribute(name string, raw jsontext.Value) (*DynamicAttribute, error) {
	entry, ok := r.attributes[name]
	if !ok {
		if r.opts.LenientAttributes {
			return &DynamicAttribute{
				name:  name,
				value: &UnregisteredData{Name: name, Raw: raw.Clone()},
			}, nil
		}
		return nil, fmt.Errorf("decode attribute %q: %w", name, ErrUnregistered)
	}
	attr, err := entry.decode(name, raw)
	if err != nil {
		return nil, fmt.Errorf("decode attribute %q: %w", name, err)
	}
	return attr, nil
}

// DecodeAnimationTarget decodes the serialized payload for the named
// animation target. Unknown names fail with ErrUnregistered in strict mode
// and produce an UnregisteredData passthrough in lenient mode.
func (r *Registry) DecodeAnimationTarget(name string, raw jsontext.Value) (*DynamicAnimationTarget, error) {
	entry, ok := r.animations[name]
	if !ok {
		if r.opts.LenientAnimations {
			value := &UnregisteredData{Name: name, Raw: raw.Clone()}
			return &DynamicAnimationTarget{name: name, typ: unregisteredType(name), value: value}, nil
		}
		return nil, fmt.Errorf("decode animation target %q: %w", name, ErrUnregistered)
	}
	target, err := entry.decode(name, raw)
	if err != nil {
		return nil, fmt.Errorf("decode animation target %q: %w", name, err)
	}
	return target, nil
}
