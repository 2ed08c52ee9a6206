package tcp

import (
	"io"
	"net"

	"github.com/inconshreveable/log15"
	"github.com/pkg/errors"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/bitmaptrie/trieserve/dictionary"
	"github.com/bitmaptrie/trieserve/dictionarymap"
)

// Server accepts TCP connections and dispatches msgpack Commands against
// a shared DictionaryMap.
type Server struct {
	addr string
	dm   *dictionarymap.DictionaryMap
	log  log15.Logger
}

// New returns a Server dispatching against dm. addr (e.g. ":7777") is
// only recorded; Serve accepts on whatever listener it is given.
func New(addr string, dm *dictionarymap.DictionaryMap, log log15.Logger) *Server {
	return &Server{addr: addr, dm: dm, log: log}
}

// Serve blocks accepting connections until the listener is closed or ln
// fails permanently. Each connection is handled on its own goroutine.
func (s *Server) Serve(ln net.Listener) error {
	for {
		conn, err := ln.Accept()
		if err != nil {
			return errors.Wrap(err, "accept tcp connection")
		}
		go s.handleConn(conn)
	}
}

func (s *Server) handleConn(conn net.Conn) {
	defer conn.Close()
	log := s.log.New("remote", conn.RemoteAddr().String())
	log.Debug("connection accepted")
	defer log.Debug("connection closed")

	dec := msgpack.NewDecoder(conn)
	enc := msgpack.NewEncoder(conn)
	for {
		var cmd Command
		if err := dec.Decode(&cmd); err != nil {
			if err != io.EOF {
				log.Warn("decode command failed", "err", err)
			}
			return
		}
		resp := s.dispatch(&cmd)
		if err := enc.Encode(resp); err != nil {
			log.Warn("encode response failed", "err", err)
			return
		}
	}
}

func (s *Server) dispatch(cmd *Command) Response {
	switch cmd.Kind {
	case kindCreateDictionary:
		return s.handleCreateDictionary(cmd.CreateDictionary)
	case kindAddEntry:
		return s.handleAddEntry(cmd.AddEntry)
	case kindSearch:
		return s.handleSearch(cmd.Search)
	default:
		return Response{Kind: cmd.Kind}
	}
}

func (s *Server) handleCreateDictionary(c *CreateDictionaryCommand) Response {
	if c == nil {
		return Response{Kind: kindCreateDictionary, CreateDictionary: &CreateDictionaryReply{Error: "missing create_dictionary payload"}}
	}
	schema := make([]dictionary.AttributeDef, len(c.Attributes))
	for i, a := range c.Attributes {
		schema[i] = dictionary.AttributeDef{Name: a.Name, Mode: dictionary.ParseAttributeSearchMode(a.Mode)}
	}
	if err := s.dm.CreateDictionary(c.DictionaryID, schema); err != nil {
		return Response{Kind: kindCreateDictionary, CreateDictionary: &CreateDictionaryReply{Error: err.Error()}}
	}
	return Response{Kind: kindCreateDictionary, CreateDictionary: &CreateDictionaryReply{Success: true}}
}

func (s *Server) handleAddEntry(c *AddEntryCommand) Response {
	if c == nil {
		return Response{Kind: kindAddEntry, AddEntry: &AddEntryReply{Error: "missing add_entry payload"}}
	}
	id, ok, err := s.dm.AddEntry(c.DictionaryID, c.EntryData)
	if err != nil {
		return Response{Kind: kindAddEntry, AddEntry: &AddEntryReply{Error: err.Error()}}
	}
	if !ok {
		return Response{Kind: kindAddEntry, AddEntry: &AddEntryReply{Error: "no recognized attribute in entry_data"}}
	}
	return Response{Kind: kindAddEntry, AddEntry: &AddEntryReply{Success: true, EntryID: id}}
}

func (s *Server) handleSearch(c *SearchCommand) Response {
	if c == nil {
		return Response{Kind: kindSearch, Search: &SearchReply{Error: "missing search payload"}}
	}
	hits, err := s.dm.Search(c.DictionaryID, c.Term)
	if err != nil {
		return Response{Kind: kindSearch, Search: &SearchReply{Error: err.Error()}}
	}
	items := make([]SearchResultItem, len(hits))
	for i, h := range hits {
		items[i] = SearchResultItem{
			Term:          h.Term,
			Attribute:     h.AttributeName,
			OriginalEntry: h.OriginalEntry,
			DictionaryID:  c.DictionaryID,
		}
	}
	return Response{Kind: kindSearch, Search: &SearchReply{Results: items}}
}
