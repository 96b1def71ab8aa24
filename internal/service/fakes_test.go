package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"lottomax/internal/external/scraper"
	"lottomax/internal/model"
	"lottomax/internal/storage/repository"

	"github.com/PuerkitoBio/goquery"
)

type fakeStore struct {
	mu        sync.Mutex
	draws     map[string]*model.Draw
	sets      []*model.BonusGameSet
	nextID    int64
	existsErr error
	setErr    error
	// racing: даты, для которых Create ведет себя как при параллельной вставке
	racing map[string]bool
}

func newFakeStore(dates ...string) *fakeStore {
	s := &fakeStore{draws: make(map[string]*model.Draw), racing: make(map[string]bool)}
	for _, date := range dates {
		s.nextID++
		s.draws[date] = &model.Draw{ID: s.nextID, Date: date}
	}
	return s
}

func (s *fakeStore) ExistsByDate(_ context.Context, date string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.existsErr != nil {
		return false, s.existsErr
	}
	_, ok := s.draws[date]
	return ok, nil
}

func (s *fakeStore) Create(_ context.Context, draw *model.Draw) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.draws[draw.Date]; ok || s.racing[draw.Date] {
		return repository.ErrDuplicateDraw
	}
	s.nextID++
	draw.ID = s.nextID
	s.draws[draw.Date] = draw
	return nil
}

func (s *fakeStore) CreateBonusGameSet(_ context.Context, set *model.BonusGameSet) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.setErr != nil {
		return s.setErr
	}
	s.sets = append(s.sets, set)
	return nil
}

func (s *fakeStore) ListDatesBetween(_ context.Context, from, to string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var dates []string
	for date := range s.draws {
		if date >= from && date <= to {
			dates = append(dates, date)
		}
	}
	sort.Strings(dates)
	return dates, nil
}

func (s *fakeStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.draws)
}

// fakeSession отдает заранее заданные страницы; на отсутствующую страницу возвращается ErrNoResults
type fakeSession struct {
	archives    map[int]string
	archiveErrs map[int]error
	days        map[string]string
	fetched     []string
	closed      int
}

func newFakeSession() *fakeSession {
	return &fakeSession{
		archives:    make(map[int]string),
		archiveErrs: make(map[int]error),
		days:        make(map[string]string),
	}
}

func (f *fakeSession) FetchArchive(_ context.Context, year int) (*goquery.Document, error) {
	f.fetched = append(f.fetched, fmt.Sprint(year))
	if err, ok := f.archiveErrs[year]; ok {
		return nil, err
	}
	page, ok := f.archives[year]
	if !ok {
		return nil, scraper.ErrNoResults
	}
	return goquery.NewDocumentFromReader(strings.NewReader(page))
}

func (f *fakeSession) FetchDay(_ context.Context, date string) (*goquery.Document, error) {
	f.fetched = append(f.fetched, date)
	page, ok := f.days[date]
	if !ok {
		return nil, scraper.ErrNoResults
	}
	return goquery.NewDocumentFromReader(strings.NewReader(page))
}

func (f *fakeSession) Close() error {
	f.closed++
	return nil
}

func (f *fakeSession) opener() scraper.Opener {
	return func(context.Context) (scraper.Session, error) {
		return f, nil
	}
}

func spans(numbers []int) string {
	var b strings.Builder
	for _, n := range numbers {
		fmt.Fprintf(&b, "<span>%d</span>", n)
	}
	return b.String()
}

// legacyRow строит строку архива в старой разметке
func legacyRow(date string, numbers []int, sets ...[]int) string {
	var b strings.Builder
	fmt.Fprintf(&b, `<tr><td class="date">%s</td><td>`, date)
	fmt.Fprintf(&b, `<div class="numerosGangnants principal">%s</div>`, spans(numbers))
	for _, set := range sets {
		fmt.Fprintf(&b, `<div class="numerosGangnants maximillions">%s</div>`, spans(set))
	}
	b.WriteString("</td></tr>")
	return b.String()
}

func archivePage(rows ...string) string {
	return `<html><body><table><tbody><tr class="titre"><th>Date</th></tr>` +
		strings.Join(rows, "") + `</tbody></table></body></html>`
}

func dayPage(numbers []int, bonus int) string {
	var b strings.Builder
	b.WriteString(`<html><body><div class="lqZoneResultatsProduit"><div class="numeros">`)
	for _, n := range numbers {
		fmt.Fprintf(&b, `<span class="num">%d</span>`, n)
	}
	fmt.Fprintf(&b, `<span class="num complementaire">%d</span>`, bonus)
	b.WriteString(`</div></div></body></html>`)
	return b.String()
}

var sampleNumbers = []int{3, 12, 19, 24, 31, 40, 45}
