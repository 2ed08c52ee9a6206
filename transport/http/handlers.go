/*
Package http exposes a DictionaryMap over a gorilla/mux router: create a
dictionary, add an entry, search, fetch an entry, list dictionary names,
and a small stats endpoint ranking dictionaries by entry count.
*/
package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/inconshreveable/log15"

	"github.com/bitmaptrie/trieserve/dictionary"
	"github.com/bitmaptrie/trieserve/dictionarymap"
	"github.com/bitmaptrie/trieserve/priorityqueue"
)

// Handler wraps a DictionaryMap with the HTTP routes that front it.
type Handler struct {
	dm     *dictionarymap.DictionaryMap
	log    log15.Logger
	recent *recentQueries
}

// New builds a Handler over dm. recentCap bounds the /recent query log;
// 0 disables it.
func New(dm *dictionarymap.DictionaryMap, log log15.Logger, recentCap int) *Handler {
	return &Handler{dm: dm, log: log, recent: newRecentQueries(recentCap)}
}

// Router builds a gorilla/mux router wired to every route Handler
// serves.
func (h *Handler) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/dictionaries", h.listDictionaries).Methods(http.MethodGet)
	r.HandleFunc("/dictionaries/{name}", h.createDictionary).Methods(http.MethodPost)
	r.HandleFunc("/dictionaries/{name}/entries", h.addEntry).Methods(http.MethodPost)
	r.HandleFunc("/dictionaries/{name}/entries/{id}", h.getEntry).Methods(http.MethodGet)
	r.HandleFunc("/dictionaries/{name}/search", h.search).Methods(http.MethodGet)
	r.HandleFunc("/dictionaries/{name}/recent-entries", h.recentEntries).Methods(http.MethodGet)
	r.HandleFunc("/stats", h.stats).Methods(http.MethodGet)
	r.HandleFunc("/recent", h.recentQueries).Methods(http.MethodGet)
	return r
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

type attributeRequest struct {
	Name string `json:"name"`
	Mode string `json:"mode"`
}

func (h *Handler) createDictionary(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	var attrs []attributeRequest
	if err := json.NewDecoder(r.Body).Decode(&attrs); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	schema := make([]dictionary.AttributeDef, len(attrs))
	for i, a := range attrs {
		schema[i] = dictionary.AttributeDef{Name: a.Name, Mode: dictionary.ParseAttributeSearchMode(a.Mode)}
	}
	if err := h.dm.CreateDictionary(name, schema); err != nil {
		if dictionarymap.IsExists(err) {
			writeError(w, http.StatusConflict, err)
			return
		}
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"name": name})
}

func (h *Handler) addEntry(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	var record map[string]string
	if err := json.NewDecoder(r.Body).Decode(&record); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	id, ok, err := h.dm.AddEntry(name, record)
	if err != nil {
		if dictionarymap.IsNotFound(err) {
			writeError(w, http.StatusNotFound, err)
			return
		}
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if !ok {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": "no recognized attribute in request body"})
		return
	}
	writeJSON(w, http.StatusCreated, map[string]uint32{"id": id})
}

func (h *Handler) getEntry(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id, err := strconv.ParseUint(vars["id"], 10, 32)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	record, err := h.dm.Get(vars["name"], uint32(id))
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (h *Handler) search(w http.ResponseWriter, r *http.Request) {
	term := r.URL.Query().Get("q")
	h.recent.record(term)
	results, err := h.dm.Search(mux.Vars(r)["name"], term)
	if err != nil {
		if dictionarymap.IsNotFound(err) {
			writeError(w, http.StatusNotFound, err)
			return
		}
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, results)
}

func (h *Handler) recentEntries(w http.ResponseWriter, r *http.Request) {
	n := 10
	if raw := r.URL.Query().Get("n"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			n = parsed
		}
	}
	ids, err := h.dm.RecentEntries(mux.Vars(r)["name"], n)
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	writeJSON(w, http.StatusOK, ids)
}

func (h *Handler) listDictionaries(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.dm.Names())
}

func (h *Handler) recentQueries(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.recent.List())
}

type dictStat struct {
	Name  string
	Count int
}

// stats ranks every dictionary by entry count, largest first, using a
// max-heap rather than sorting the whole slice since only the ranking
// (not a stable full sort) is asked for.
func (h *Handler) stats(w http.ResponseWriter, r *http.Request) {
	sizes := h.dm.Sizes()
	heap := priorityqueue.NewBinaryHeapWithComparator(func(a, b dictStat) bool {
		return a.Count > b.Count
	})
	for name, count := range sizes {
		heap.Add(dictStat{Name: name, Count: count})
	}

	ranked := make([]dictStat, 0, heap.Size())
	for !heap.IsEmpty() {
		v, err := heap.Poll()
		if err != nil {
			break
		}
		ranked = append(ranked, v)
	}
	writeJSON(w, http.StatusOK, ranked)
}
