package nibel

// Scope carries the values a screen's content may ask for: its arguments,
// the controller that navigates away from it, the paradigm hosting it and
// the request key it was opened with. Generated wrappers read it to call
// the screen function.
type Scope struct {
	controller     NavigationController
	implementation ImplementationType
	args           any
	requestKey     string
}

// NewScope returns a scope for one screen.
func NewScope(controller NavigationController, implementation ImplementationType, args any, requestKey string) *Scope {
	return &Scope{
		controller:     controller,
		implementation: implementation,
		args:           args,
		requestKey:     requestKey,
	}
}

// NavigationController returns the controller of the hosting navigator.
func (s *Scope) NavigationController() NavigationController {
	if s == nil {
		return nil
	}
	return s.controller
}

// ImplementationType returns the paradigm rendering the screen.
func (s *Scope) ImplementationType() ImplementationType {
	if s == nil {
		return ImplementationUnknown
	}
	return s.implementation
}

// Args returns the argument payload.
func (s *Scope) Args() any {
	if s == nil {
		return nil
	}
	return s.args
}

// RequestKey returns the key of the pending result request, if any.
func (s *Scope) RequestKey() string {
	if s == nil {
		return ""
	}
	return s.requestKey
}

// WithImplementation returns a copy of s rendering with impl.
func (s *Scope) WithImplementation(impl ImplementationType) *Scope {
	c := Scope{}
	if s != nil {
		c = *s
	}
	c.implementation = impl
	return &c
}

// ArgsOf returns the scope's arguments as A.
func ArgsOf[A any](s *Scope) (A, bool) {
	a, ok := s.Args().(A)
	return a, ok
}
