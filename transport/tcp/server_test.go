package tcp

import (
	"net"
	"testing"

	"github.com/inconshreveable/log15"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/bitmaptrie/trieserve/dictionarymap"
)

func newTestServer(t *testing.T) (*Server, net.Conn) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("net.Listen() error = %v", err)
	}
	t.Cleanup(func() { ln.Close() })

	log := log15.New()
	log.SetHandler(log15.DiscardHandler())
	srv := New(ln.Addr().String(), dictionarymap.New(), log)
	go srv.Serve(ln)

	conn, err := net.Dial("tcp", ln.Addr().String())
	if err != nil {
		t.Fatalf("net.Dial() error = %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return srv, conn
}

func roundTrip(t *testing.T, conn net.Conn, cmd Command) Response {
	t.Helper()
	if err := msgpack.NewEncoder(conn).Encode(&cmd); err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	var resp Response
	if err := msgpack.NewDecoder(conn).Decode(&resp); err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	return resp
}

func TestCreateAddSearchRoundTrip(t *testing.T) {
	_, conn := newTestServer(t)

	createResp := roundTrip(t, conn, Command{
		Kind: kindCreateDictionary,
		CreateDictionary: &CreateDictionaryCommand{
			DictionaryID: "people",
			Attributes:   []AttributeWire{{Name: "name", Mode: "exact"}},
		},
	})
	if createResp.CreateDictionary == nil || !createResp.CreateDictionary.Success {
		t.Fatalf("create_dictionary response = %+v; want success", createResp.CreateDictionary)
	}

	addResp := roundTrip(t, conn, Command{
		Kind: kindAddEntry,
		AddEntry: &AddEntryCommand{
			DictionaryID: "people",
			EntryData:    map[string]string{"name": "Ada Lovelace"},
		},
	})
	if addResp.AddEntry == nil || !addResp.AddEntry.Success {
		t.Fatalf("add_entry response = %+v; want success", addResp.AddEntry)
	}

	searchResp := roundTrip(t, conn, Command{
		Kind:   kindSearch,
		Search: &SearchCommand{DictionaryID: "people", Term: "Ada Lovelace"},
	})
	if searchResp.Search == nil || len(searchResp.Search.Results) != 1 {
		t.Fatalf("search response = %+v; want one result", searchResp.Search)
	}
}

func TestSearchUnknownDictionaryReturnsError(t *testing.T) {
	_, conn := newTestServer(t)

	resp := roundTrip(t, conn, Command{
		Kind:   kindSearch,
		Search: &SearchCommand{DictionaryID: "ghost", Term: "anything"},
	})
	if resp.Search == nil || resp.Search.Error == "" {
		t.Fatalf("search response = %+v; want a non-empty error", resp.Search)
	}
}
