package domain

// NonceCounter hands out the nonces of one sender for one run.
// Reserve is its only mutation; each reservation must correspond to exactly one
// transaction submitted in reservation order.
type NonceCounter struct {
	next uint64
}

// NewNonceCounter starts a counter at the chain's transaction count for the sender.
func NewNonceCounter(start uint64) *NonceCounter {
	return &NonceCounter{next: start}
}

// Reserve returns the current value and advances the counter.
func (c *NonceCounter) Reserve() uint64 {
	n := c.next
	c.next++
	return n
}

// Next returns the nonce the following Reserve call will hand out.
func (c *NonceCounter) Next() uint64 {
	return c.next
}
