package header_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/mock/gomock"

	"github.com/ghettovoice/httphdr/header"
	"github.com/ghettovoice/httphdr/internal/testutil/hdrmock"
)

func TestStatsRecorder(t *testing.T) {
	t.Parallel()

	var rcdr header.StatsRecorder
	hs := header.New(&header.Options{Observer: &rcdr})

	hs.AppendRawLine(header.MustName("x-count"), []byte("1"))
	hs.AppendRawLine(nameTags, []byte("a b"))
	header.Get[countHdr](hs) //nolint:errcheck
	header.Get[countHdr](hs) //nolint:errcheck
	header.Get[countHdr](hs) //nolint:errcheck
	header.Get[tagsHdr](hs)  //nolint:errcheck

	got := rcdr.Report()
	want := []header.HeaderStats{
		{Name: "X-Count", Parses: 1, CacheHits: 2},
		{Name: "X-Tags", ParseErrors: 1},
	}
	if diff := cmp.Diff(got.Headers, want); diff != "" {
		t.Errorf("rcdr.Report().Headers = %+v, want %+v\ndiff (-got +want):\n%v", got.Headers, want, diff)
	}
	if got.Time.IsZero() {
		t.Errorf("rcdr.Report().Time is zero")
	}
}

func TestObservers(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	o1 := hdrmock.NewMockObserver(ctrl)
	o2 := hdrmock.NewMockObserver(ctrl)
	for _, o := range []*hdrmock.MockObserver{o1, o2} {
		o.EXPECT().HeaderParsed(nameCount, gomock.Any(), nil).Times(1)
		o.EXPECT().HeaderCacheHit(nameCount, gomock.Any()).Times(1)
	}

	hs := header.New(&header.Options{Observer: header.Observers(o1, nil, o2)})
	hs.AppendRawLine(nameCount, []byte("1"))
	header.Get[countHdr](hs) //nolint:errcheck
	header.Get[countHdr](hs) //nolint:errcheck

	if got := header.Observers(nil, o1); got != header.Observer(o1) {
		t.Errorf("header.Observers(nil, o1) = %v, want o1 itself", got)
	}
}
