package ports

// Handle is an opaque host-owned presentation resource.
// The runtime only compares handles for identity.
type Handle interface{}

// Description declaratively describes a host element to create.
type Description struct {
	Tag   string            `yaml:"tag" toml:"tag"`
	ID    string            `yaml:"id,omitempty" toml:"id"`
	Class string            `yaml:"class,omitempty" toml:"class"`
	Attrs map[string]string `yaml:"attrs,omitempty" toml:"attrs"`
	Text  string            `yaml:"text,omitempty" toml:"text"`
}

// SubscribeOptions are forwarded to the host when bridging an event type.
type SubscribeOptions struct {
	Passive bool
	Capture bool
}

// Subscription identifies one host event subscription.
type Subscription interface{}

// HostListener receives host-originated events.
type HostListener func(args ...any)

// ElementAdapter creates, destroys and observes host elements.
type ElementAdapter interface {
	// Create builds a host element from desc and attaches it under parent.
	// A nil parent attaches to the host's top-level container.
	Create(desc Description, parent Handle) (Handle, error)

	// Destroy detaches h from its attachment point.
	// Destroying an already detached or unknown handle is a no-op.
	Destroy(h Handle)

	// Subscribe registers fn for the named host event on h.
	Subscribe(h Handle, event string, fn HostListener, opts SubscribeOptions) Subscription

	// Unsubscribe removes a subscription; stale subscriptions are ignored.
	Unsubscribe(s Subscription)
}
