package xlog

import (
	"testing"

	"github.com/inconshreveable/log15"
)

func TestParseLevelNames(t *testing.T) {
	cases := map[string]Level{
		"crit":  LvlCrit,
		"ERROR": LvlError,
		"warn":  LvlWarn,
		"info":  LvlInfo,
		"debug": LvlDebug,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v; want %v", in, got, want)
		}
	}
}

func TestParseLevelNumeric(t *testing.T) {
	if got := ParseLevel("4"); got != LvlDebug {
		t.Errorf("ParseLevel(4) = %v; want LvlDebug", got)
	}
}

func TestParseLevelUnknownDefaultsToInfo(t *testing.T) {
	if got := ParseLevel("bogus"); got != LvlInfo {
		t.Errorf("ParseLevel(bogus) = %v; want LvlInfo", got)
	}
}

func TestNewTagsModule(t *testing.T) {
	log := New("trie")
	if log == nil {
		t.Fatal("New() returned nil logger")
	}
	var ctx []interface{}
	log.SetHandler(log15.FuncHandler(func(r *log15.Record) error {
		ctx = r.Ctx
		return nil
	}))
	log.Info("probe")
	if len(ctx) < 2 || ctx[0] != "module" || ctx[1] != "trie" {
		t.Errorf("New(\"trie\") record context = %v; want module=trie", ctx)
	}
}
