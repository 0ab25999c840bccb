package entity

import "sort"

// AddressBook maps a network to the contract address of a token on that network.
type AddressBook struct {
	entries map[NetworkID]string
}

// NewAddressBook copies addresses into a new AddressBook.
func NewAddressBook(addresses map[NetworkID]string) AddressBook {
	entries := make(map[NetworkID]string, len(addresses))
	for id, addr := range addresses {
		entries[id] = addr
	}
	return AddressBook{entries: entries}
}

// Lookup returns the stored address for the network. The second result is false
// when the book has no entry for it; an entry may still hold an empty string.
func (b AddressBook) Lookup(id NetworkID) (string, bool) {
	addr, ok := b.entries[id]
	return addr, ok
}

// Len returns the number of networks the token is deployed on.
func (b AddressBook) Len() int {
	return len(b.entries)
}

// Networks returns the network ids of the book in lexical order.
func (b AddressBook) Networks() []NetworkID {
	ids := make([]NetworkID, 0, len(b.entries))
	for id := range b.entries {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
