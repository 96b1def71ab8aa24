package scraper

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gocolly/colly/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const archivePage = `<html><body><table><tbody>
<tr><td class="date">2017-01-06</td><td><div class="numerosGangnants principal"><span>1</span></div></td></tr>
</tbody></table></body></html>`

const dayPage = `<html><body><div class="lqZoneResultatsProduit"><div class="numeros"><span class="num">1</span></div></div></body></html>`

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/archive", func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("annee") {
		case "2017":
			_, _ = w.Write([]byte(archivePage))
		case "2018":
			_, _ = w.Write([]byte("<html><body><p>Aucun résultat</p></body></html>"))
		default:
			http.Error(w, "boom", http.StatusInternalServerError)
		}
	})
	mux.HandleFunc("/day", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("date") == "2025-06-13" {
			_, _ = w.Write([]byte(dayPage))
			return
		}
		_, _ = w.Write([]byte("<html><body></body></html>"))
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func newTestStaticFetcher(server *httptest.Server) *StaticFetcher {
	return NewStaticFetcher(Config{
		URLs: SourceURLs{
			ArchiveBase: server.URL + "/archive?annee=",
			DayBase:     server.URL + "/day",
		},
		UserAgent: "lottomax-test",
	}, zap.NewNop())
}

func TestStaticFetcher_FetchArchive(t *testing.T) {
	fetcher := newTestStaticFetcher(newTestServer(t))

	doc, err := fetcher.FetchArchive(context.Background(), 2017)
	require.NoError(t, err)
	assert.Equal(t, "2017-01-06", doc.Find(".date").Text())
}

func TestStaticFetcher_NoResultsIsSoft(t *testing.T) {
	fetcher := newTestStaticFetcher(newTestServer(t))

	_, err := fetcher.FetchArchive(context.Background(), 2018)
	assert.ErrorIs(t, err, ErrNoResults)

	_, err = fetcher.FetchDay(context.Background(), "2025-06-14")
	assert.ErrorIs(t, err, ErrNoResults)
}

func TestStaticFetcher_ServerErrorIsHard(t *testing.T) {
	fetcher := newTestStaticFetcher(newTestServer(t))

	_, err := fetcher.FetchArchive(context.Background(), 1999)
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrNoResults))
}

func TestStaticFetcher_FetchDay(t *testing.T) {
	fetcher := newTestStaticFetcher(newTestServer(t))

	doc, err := fetcher.FetchDay(context.Background(), "2025-06-13")
	require.NoError(t, err)
	assert.Equal(t, 1, doc.Find(".numeros").Length())
}

func TestStaticFetcher_InvalidDate(t *testing.T) {
	fetcher := newTestStaticFetcher(newTestServer(t))

	_, err := fetcher.FetchDay(context.Background(), "13/06/2025")
	assert.Error(t, err)
}

func TestSourceURLs(t *testing.T) {
	urls := SourceURLs{
		ArchiveBase: "https://example.test/lotto-max-resultats?widget=resultats-anterieurs&noProduit=223&annee=",
		DayBase:     "https://example.test/lotto-max-resultats",
	}

	assert.Equal(t,
		"https://example.test/lotto-max-resultats?widget=resultats-anterieurs&noProduit=223&annee=2016",
		urls.Archive(2016))

	day, err := urls.Day("2025-06-13")
	require.NoError(t, err)
	assert.Equal(t, "https://example.test/lotto-max-resultats?date=2025-06-13", day)
}

func TestApplyLimit_LogsInvalidRule(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)

	applyLimit(colly.NewCollector(), &colly.LimitRule{DomainRegexp: "("}, zap.New(core))

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "Failed to set collector limit", logs.All()[0].Message)
}

func TestNewStaticFetcher_LimitAccepted(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)

	NewStaticFetcher(Config{UserAgent: "lottomax-test"}, zap.New(core))

	assert.Equal(t, 0, logs.Len())
}
