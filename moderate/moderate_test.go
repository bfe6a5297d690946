package moderate_test

import (
	"testing"

	"github.com/zephyrtronium/selfbot/moderate"
)

func TestShouldDelete(t *testing.T) {
	cases := []struct {
		name    string
		content string
		banned  []string
		term    string
		ok      bool
	}{
		{"match", "this has badword1 in it", moderate.DefaultBanned, "badword1", true},
		{"clean", "clean text", moderate.DefaultBanned, "", false},
		{"empty-content", "", moderate.DefaultBanned, "", false},
		{"no-terms", "badword1", nil, "", false},
		{"substring", "superbadword123", moderate.DefaultBanned, "badword1", true},
		{"second", "only badword2 here", moderate.DefaultBanned, "badword2", true},
		{"list-order", "badword2 then badword1", moderate.DefaultBanned, "badword1", true},
		{"case", "BADWORD1", moderate.DefaultBanned, "", false},
		{"empty-term", "anything", []string{"", "thing"}, "thing", true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			term, ok := moderate.ShouldDelete(c.content, c.banned)
			if term != c.term {
				t.Errorf("wrong term: want %q, got %q", c.term, term)
			}
			if ok != c.ok {
				t.Errorf("wrong match: want %t, got %t", c.ok, ok)
			}
		})
	}
}
