package types

// Reply is a raw backend answer. A non-2xx status is not a transport error
// by itself: the backend signals session invalidation with a 403 and a JSON
// marker body.
type Reply struct {
	StatusCode int
	Body       []byte
}

// OK reports whether the status is 2xx.
func (r Reply) OK() bool { return r.StatusCode/100 == 2 }
