/*
Package tcp is a msgpack-framed command protocol over net.TCPListener,
one connection handled per goroutine, serving the same three operations
the original listener exposed over newline-delimited JSON: create a
dictionary, add an entry, search. Each connection's decoder is read in
a loop, so a client can pipeline any number of commands on one socket.
*/
package tcp

// commandKind discriminates the oneof Command carries, since msgpack
// has no native sum type.
type commandKind string

const (
	kindCreateDictionary commandKind = "create_dictionary"
	kindAddEntry         commandKind = "add_entry"
	kindSearch           commandKind = "search"
)

// Command is one request frame. Exactly one of the three payload
// fields is populated, selected by Kind.
type Command struct {
	Kind             commandKind             `msgpack:"kind"`
	CreateDictionary *CreateDictionaryCommand `msgpack:"create_dictionary,omitempty"`
	AddEntry         *AddEntryCommand         `msgpack:"add_entry,omitempty"`
	Search           *SearchCommand           `msgpack:"search,omitempty"`
}

type CreateDictionaryCommand struct {
	DictionaryID string            `msgpack:"dictionary_id"`
	Attributes   []AttributeWire   `msgpack:"attributes"`
}

// AttributeWire pairs an attribute name with its search mode spelled
// as a wire string ("none", "exact", "multiple"); unrecognized strings
// decode to ModeNone, same as dictionary.ParseAttributeSearchMode.
type AttributeWire struct {
	Name string `msgpack:"name"`
	Mode string `msgpack:"mode"`
}

type AddEntryCommand struct {
	DictionaryID string            `msgpack:"dictionary_id"`
	EntryData    map[string]string `msgpack:"entry_data"`
}

type SearchCommand struct {
	DictionaryID string `msgpack:"dictionary_id"`
	Term         string `msgpack:"term"`
}

// Response is one reply frame, shaped to mirror whichever Command kind
// produced it.
type Response struct {
	Kind                commandKind           `msgpack:"kind"`
	CreateDictionary    *CreateDictionaryReply `msgpack:"create_dictionary,omitempty"`
	AddEntry            *AddEntryReply         `msgpack:"add_entry,omitempty"`
	Search              *SearchReply           `msgpack:"search,omitempty"`
}

type CreateDictionaryReply struct {
	Success bool   `msgpack:"success"`
	Error   string `msgpack:"error,omitempty"`
}

type AddEntryReply struct {
	Success bool   `msgpack:"success"`
	EntryID uint32 `msgpack:"entry_id,omitempty"`
	Error   string `msgpack:"error,omitempty"`
}

type SearchReply struct {
	Results []SearchResultItem `msgpack:"results"`
	Error   string             `msgpack:"error,omitempty"`
}

type SearchResultItem struct {
	Term           string `msgpack:"term"`
	Attribute      string `msgpack:"attribute"`
	OriginalEntry  string `msgpack:"original_entry"`
	DictionaryID   string `msgpack:"dictionary_id"`
}
