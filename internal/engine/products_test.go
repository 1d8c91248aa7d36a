package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/varcodes/trackmyprices/internal/notify"
	"github.com/varcodes/trackmyprices/internal/scrape"
	"github.com/varcodes/trackmyprices/internal/store"
	domain "github.com/varcodes/trackmyprices/pkg/types"
)

func TestTrack_NewProduct(t *testing.T) {
	t.Parallel()

	d := newDeps(t)
	eng := newTestEngine(d)

	const canonical = "https://www.amazon.com/dp/B0TEST"
	snap := &domain.Snapshot{URL: canonical, Title: "Kindle", Currency: "$", CurrentPrice: 99.99, ScrapedAt: testNow}

	d.scraper.EXPECT().Scrape(mock.Anything, canonical).Return(snap, nil).Once()
	d.store.EXPECT().GetProductByURL(mock.Anything, canonical).Return(nil, store.ErrNotFound).Once()
	d.store.EXPECT().UpsertProduct(mock.Anything, canonical, mock.MatchedBy(func(p *store.ProductPatch) bool {
		return len(p.PriceHistory) == 1 && p.LowestPrice == 99.99 && p.HighestPrice == 99.99 && p.AveragePrice == 99.99
	})).RunAndReturn(applyPatch(nil)).Once()

	res, err := eng.Track(context.Background(), "  WWW.Amazon.com/dp/B0TEST/?tag=abc#reviews ")
	require.NoError(t, err)
	assert.True(t, res.Created)
	assert.Equal(t, canonical, res.Product.URL)
	assert.Equal(t, 99.99, res.Product.CurrentPrice)
}

func TestTrack_ExistingProductAppendsHistory(t *testing.T) {
	t.Parallel()

	d := newDeps(t)
	eng := newTestEngine(d)

	existing := product("B0OLD", []string{"ann@example.com"}, 120, 110)
	d.scraper.EXPECT().Scrape(mock.Anything, existing.URL).Return(snapshot(&existing, 100, false), nil).Once()
	d.store.EXPECT().GetProductByURL(mock.Anything, existing.URL).Return(&existing, nil).Once()
	d.store.EXPECT().UpsertProduct(mock.Anything, existing.URL, mock.MatchedBy(func(p *store.ProductPatch) bool {
		return len(p.PriceHistory) == 3 && p.LowestPrice == 100 && p.HighestPrice == 120 && p.AveragePrice == 110
	})).RunAndReturn(applyPatch([]domain.Product{existing})).Once()

	res, err := eng.Track(context.Background(), existing.URL)
	require.NoError(t, err)
	assert.False(t, res.Created)
	assert.Equal(t, existing.ID, res.Product.ID)
	assert.Equal(t, existing.Subscribers, res.Product.Subscribers)
}

func TestTrack_Errors(t *testing.T) {
	t.Parallel()

	const canonical = "https://shop.example.com/item/1"

	tests := []struct {
		name    string
		rawURL  string
		setup   func(d testDeps)
		wantErr error
	}{
		{
			name:    "invalid url never reaches scraper",
			rawURL:  "ftp://shop.example.com/item/1",
			setup:   func(testDeps) {},
			wantErr: scrape.ErrInvalidURL,
		},
		{
			name:    "empty url",
			rawURL:  "   ",
			setup:   func(testDeps) {},
			wantErr: scrape.ErrInvalidURL,
		},
		{
			name:   "scrape failure stores nothing",
			rawURL: canonical,
			setup: func(d testDeps) {
				d.scraper.EXPECT().Scrape(mock.Anything, canonical).
					Return(nil, &scrape.Error{URL: canonical, Err: scrape.ErrIncomplete}).Once()
			},
			wantErr: scrape.ErrIncomplete,
		},
		{
			name:   "lookup failure",
			rawURL: canonical,
			setup: func(d testDeps) {
				d.scraper.EXPECT().Scrape(mock.Anything, canonical).
					Return(&domain.Snapshot{Title: "t", CurrentPrice: 1}, nil).Once()
				d.store.EXPECT().GetProductByURL(mock.Anything, canonical).
					Return(nil, errors.New("connection refused")).Once()
			},
		},
		{
			name:   "upsert failure",
			rawURL: canonical,
			setup: func(d testDeps) {
				d.scraper.EXPECT().Scrape(mock.Anything, canonical).
					Return(&domain.Snapshot{Title: "t", CurrentPrice: 1}, nil).Once()
				d.store.EXPECT().GetProductByURL(mock.Anything, canonical).
					Return(nil, store.ErrNotFound).Once()
				d.store.EXPECT().UpsertProduct(mock.Anything, canonical, mock.Anything).
					Return(nil, errors.New("duplicate key")).Once()
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			d := newDeps(t)
			eng := newTestEngine(d)
			tt.setup(d)

			_, err := eng.Track(context.Background(), tt.rawURL)
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestSubscribe_NewSubscriberGetsWelcome(t *testing.T) {
	t.Parallel()

	d := newDeps(t)
	eng := newTestEngine(d)

	p := product("p1", []string{"ann@example.com", "bob@example.com"}, 50)
	email := &notify.Email{Kind: domain.NotifyWelcome, Subject: "Welcome"}

	d.store.EXPECT().AddSubscriber(mock.Anything, "p1", "bob@example.com").Return(&p, true, nil).Once()
	d.notifier.EXPECT().Render(mock.Anything, mock.Anything, domain.NotifyWelcome).Return(email, nil).Once()
	d.notifier.EXPECT().Dispatch(mock.Anything, email, []string{"bob@example.com"}).Return(nil).Once()

	res, err := eng.Subscribe(context.Background(), "p1", "  Bob@Example.COM ")
	require.NoError(t, err)
	assert.True(t, res.Added)
	assert.True(t, res.WelcomeSent)
	assert.Empty(t, res.WelcomeError)
	assert.Equal(t, "p1", res.Product.ID)
}

func TestSubscribe_DuplicateSendsNoWelcome(t *testing.T) {
	t.Parallel()

	d := newDeps(t)
	eng := newTestEngine(d)

	p := product("p1", []string{"ann@example.com"}, 50)
	d.store.EXPECT().AddSubscriber(mock.Anything, "p1", "ann@example.com").Return(&p, false, nil).Once()

	res, err := eng.Subscribe(context.Background(), "p1", "ann@example.com")
	require.NoError(t, err)
	assert.False(t, res.Added)
	assert.False(t, res.WelcomeSent)
	assert.Len(t, res.Product.Subscribers, 1)
	assert.Equal(t, 1, res.Product.SubscriberCount)
}

func TestSubscribe_WelcomeFailureKeepsSubscription(t *testing.T) {
	t.Parallel()

	d := newDeps(t)
	eng := newTestEngine(d)

	p := product("p1", []string{"ann@example.com"}, 50)
	d.store.EXPECT().AddSubscriber(mock.Anything, "p1", "ann@example.com").Return(&p, true, nil).Once()
	d.notifier.EXPECT().Render(mock.Anything, mock.Anything, domain.NotifyWelcome).
		Return(&notify.Email{Kind: domain.NotifyWelcome}, nil).Once()
	d.notifier.EXPECT().Dispatch(mock.Anything, mock.Anything, mock.Anything).
		Return(errors.New("535 authentication failed")).Once()

	res, err := eng.Subscribe(context.Background(), "p1", "ann@example.com")
	require.NoError(t, err)
	assert.True(t, res.Added)
	assert.False(t, res.WelcomeSent)
	assert.Contains(t, res.WelcomeError, "535")
}

func TestSubscribe_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		email   string
		setup   func(d testDeps)
		wantErr error
	}{
		{name: "empty", email: "  ", setup: func(testDeps) {}, wantErr: ErrInvalidEmail},
		{name: "no at sign", email: "annexample.com", setup: func(testDeps) {}, wantErr: ErrInvalidEmail},
		{name: "display name", email: "Ann <ann@example.com>", setup: func(testDeps) {}, wantErr: ErrInvalidEmail},
		{
			name:  "unknown product",
			email: "ann@example.com",
			setup: func(d testDeps) {
				d.store.EXPECT().AddSubscriber(mock.Anything, "p1", "ann@example.com").
					Return(nil, false, store.ErrNotFound).Once()
			},
			wantErr: store.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			d := newDeps(t)
			eng := newTestEngine(d)
			tt.setup(d)

			_, err := eng.Subscribe(context.Background(), "p1", tt.email)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestSimilar(t *testing.T) {
	t.Parallel()

	d := newDeps(t)
	eng := newTestEngine(d)

	target := product("p1", nil, 10)
	others := []domain.Product{product("p4", nil, 1), product("p3", nil, 2), product("p2", nil, 3)}
	d.store.EXPECT().GetProduct(mock.Anything, "p1").Return(&target, nil).Once()
	d.store.EXPECT().ListOtherProducts(mock.Anything, "p1", similarLimit).Return(others, nil).Once()

	got, err := eng.Similar(context.Background(), "p1")
	require.NoError(t, err)
	assert.Len(t, got, 3)
	for _, p := range got {
		assert.NotEqual(t, "p1", p.ID)
		assert.Positive(t, p.DealScore, "in-stock products always score above zero")
	}
}

func TestProductReads_FillSubscriberCount(t *testing.T) {
	t.Parallel()

	d := newDeps(t)
	eng := newTestEngine(d)

	one := product("p1", []string{"ann@example.com", "bob@example.com"}, 10)
	page := []domain.Product{product("p2", []string{"cy@example.com"}, 5), product("p3", nil, 7)}
	d.store.EXPECT().GetProduct(mock.Anything, "p1").Return(&one, nil).Once()
	d.store.EXPECT().QueryProducts(mock.Anything, mock.Anything).Return(page, 2, nil).Once()

	got, err := eng.Product(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, 2, got.SubscriberCount)

	list, total, err := eng.QueryProducts(context.Background(), &store.ProductQuery{Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Equal(t, 1, list[0].SubscriberCount)
	assert.Zero(t, list[1].SubscriberCount)
}

func TestSimilar_UnknownProduct(t *testing.T) {
	t.Parallel()

	d := newDeps(t)
	eng := newTestEngine(d)

	d.store.EXPECT().GetProduct(mock.Anything, "missing").Return(nil, store.ErrNotFound).Once()

	_, err := eng.Similar(context.Background(), "missing")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestCycleRuns(t *testing.T) {
	t.Parallel()

	d := newDeps(t)
	eng := newTestEngine(d)

	runs := []domain.CycleRun{{ID: "r2", JobName: cycleJobName}, {ID: "r1", JobName: cycleJobName}}
	d.store.EXPECT().ListCycleRuns(mock.Anything, cycleJobName, 5).Return(runs, nil).Once()

	got, err := eng.CycleRuns(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, runs, got)
}

func TestNormalizeEmail(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "ann@example.com", want: "ann@example.com"},
		{in: "  ANN@Example.com\t", want: "ann@example.com"},
		{in: "first.last+tag@sub.example.co.uk", want: "first.last+tag@sub.example.co.uk"},
		{in: "", wantErr: true},
		{in: "ann@", wantErr: true},
		{in: "@example.com", wantErr: true},
		{in: "ann@example.com, bob@example.com", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			got, err := normalizeEmail(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidEmail)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
