package parser

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const nestedArchiveHTML = `
<html><body>
<table class="tbl-resultats"><tbody>
  <tr class="titre"><th>Date</th><th>Numéros</th></tr>
  <tr>
    <td><span class="date">2024-03-15</span></td>
    <td>
      <div>TIRAGE PRINCIPAL</div>
      <div><span>3</span> <span>12</span><span>19</span><span> </span><span>24</span><span>31</span><span>40</span><span>45</span><span>(7)</span></div>
      <div>MaxMillions</div>
      <div><span>1</span><span>2</span><span>3</span><span>4</span><span>5</span><span>6</span><span>7</span></div>
      <div><span>8</span><span>9</span><span>10</span><span>11</span><span>12</span><span>13</span></div>
      <div><span>14</span><span>15</span><span>16</span><span>17</span><span>18</span><span>19</span><span>20</span></div>
    </td>
  </tr>
  <tr>
    <td><span class="date">2024-03-12</span></td>
    <td>
      <div>Tirage principal</div>
      <div><span>1</span><span>2</span><span>3</span><span>4</span><span>5</span></div>
    </td>
  </tr>
  <tr><td></td><td>Aucun tirage</td></tr>
</tbody></table>
</body></html>`

const legacyArchiveHTML = `
<html><body>
<table><tbody>
  <tr><th>Date</th></tr>
  <tr>
    <td class="date">2024-03-15</td>
    <td>
      <div class="numerosGangnants principal"><span>3</span><span>12</span><span>19</span><span>24</span><span>31</span><span>40</span><span>45</span><span>7</span></div>
      <div class="numerosGangnants maximillions"><span>1</span><span>2</span><span>3</span><span>4</span><span>5</span><span>6</span><span>7</span></div>
      <div class="numerosGangnants maximillions"><span>8</span><span>9</span><span>10</span><span>11</span><span>12</span><span>13</span></div>
    </td>
  </tr>
  <tr>
    <td class="date">2016-01-01</td>
    <td><div class="numerosGangnants principal"><span>3</span><span>x</span><span>19</span><span>24</span><span>31</span><span>40</span></div></td>
  </tr>
</tbody></table>
</body></html>`

const dayViewHTML = `
<html><body>
<div class="lqZoneResultatsProduit">
  <div class="numeros">
    <span class="num">3</span><span class="num">12</span><span class="num">19</span><span class="num">24</span>
    <span class="num">31</span><span class="num">40</span><span class="num">45</span>
    <span class="num-sep">+</span><span class="num complementaire">7</span>
  </div>
</div>
<div class="lqMaxmillions">
  <div class="numeros"><span class="num">1</span><span class="num">2</span><span class="num">3</span><span class="num">4</span><span class="num">5</span><span class="num">6</span><span class="num">7</span></div>
  <div class="numeros"><span class="num">1</span><span class="num">2</span><span class="num">3</span><span class="num">4</span><span class="num">5</span><span class="num">6</span></div>
</div>
</body></html>`

const dayViewFallbackHTML = `
<html><body>
<div class="numeros">
  <span class="num">3</span><span class="num">12</span><span class="num">19</span><span class="num">24</span>
  <span class="num">31</span><span class="num">40</span><span class="num">45</span><span class="complementaire">(7)</span>
</div>
<div class="bloc">
  <div>Maxmillions</div>
  <div><span>1</span><span>2</span><span>3</span><span>4</span><span>5</span><span>6</span><span>7</span></div>
  <div><span>1</span><span>2</span><span>3</span><span>4</span><span>5</span><span>6</span></div>
  <div><div><span>8</span><span>9</span><span>10</span><span>11</span><span>12</span><span>13</span><span>14</span></div></div>
</div>
</body></html>`

func newDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func intPtr(v int) *int { return &v }

func TestExtractArchive_NestedLabel(t *testing.T) {
	extractor := NewDefaultExtractor(zap.NewNop())

	result := extractor.ExtractArchive(newDoc(t, nestedArchiveHTML))

	require.Len(t, result.Records, 1)
	record := result.Records[0]
	assert.Equal(t, "2024-03-15", record.Date)
	assert.Equal(t, []int{3, 12, 19, 24, 31, 40, 45}, record.Numbers)
	assert.Equal(t, intPtr(7), record.Bonus)
	assert.Equal(t, "nested-label", record.Layout)
	assert.Equal(t, [][]int{
		{1, 2, 3, 4, 5, 6, 7},
		{14, 15, 16, 17, 18, 19, 20},
	}, record.BonusGameSets)

	assert.Equal(t, 2, result.HeaderRows)
	assert.Equal(t, []string{"2024-03-12"}, result.Rejected)
}

func TestExtractArchive_LegacySpan(t *testing.T) {
	extractor := NewDefaultExtractor(zap.NewNop())

	result := extractor.ExtractArchive(newDoc(t, legacyArchiveHTML))

	require.Len(t, result.Records, 1)
	record := result.Records[0]
	assert.Equal(t, "2024-03-15", record.Date)
	assert.Equal(t, []int{3, 12, 19, 24, 31, 40, 45}, record.Numbers)
	assert.Equal(t, intPtr(7), record.Bonus)
	assert.Equal(t, "legacy-span", record.Layout)
	assert.Equal(t, [][]int{{1, 2, 3, 4, 5, 6, 7}}, record.BonusGameSets)

	assert.Equal(t, []string{"2016-01-01"}, result.Rejected)
}

func TestExtractArchive_LayoutsProduceSameRecord(t *testing.T) {
	extractor := NewDefaultExtractor(zap.NewNop())

	nested := extractor.ExtractArchive(newDoc(t, nestedArchiveHTML)).Records[0]
	legacy := extractor.ExtractArchive(newDoc(t, legacyArchiveHTML)).Records[0]

	assert.Equal(t, nested.Date, legacy.Date)
	assert.Equal(t, nested.Numbers, legacy.Numbers)
	assert.Equal(t, nested.Bonus, legacy.Bonus)
}

func TestExtractArchive_EmptyPage(t *testing.T) {
	extractor := NewDefaultExtractor(zap.NewNop())

	result := extractor.ExtractArchive(newDoc(t, "<html><body><p>Maintenance</p></body></html>"))

	assert.Empty(t, result.Records)
	assert.Empty(t, result.Rejected)
}

const wrappedSetsArchiveHTML = `
<html><body>
<table><tbody>
  <tr>
    <td><span class="date">2024-06-04</span></td>
    <td>
      <div>Tirage principal</div>
      <div><span>3</span><span>12</span><span>19</span><span>24</span><span>31</span><span>40</span><span>45</span><span>7</span></div>
      <div>Maxmillions</div>
      <div class="lot"><div class="numeros"><span>1</span><span>2</span><span>3</span><span>4</span><span>5</span><span>6</span><span>7</span></div></div>
      <div class="lot"><div class="numeros"><span>8</span><span>9</span><span>10</span><span>11</span><span>12</span><span>13</span><span>14</span></div></div>
    </td>
  </tr>
</tbody></table>
</body></html>`

func TestExtractArchive_NestedLabelWrappedSets(t *testing.T) {
	extractor := NewDefaultExtractor(zap.NewNop())

	result := extractor.ExtractArchive(newDoc(t, wrappedSetsArchiveHTML))

	require.Len(t, result.Records, 1)
	assert.Equal(t, [][]int{
		{1, 2, 3, 4, 5, 6, 7},
		{8, 9, 10, 11, 12, 13, 14},
	}, result.Records[0].BonusGameSets)
}

const nestedSetContainersDayHTML = `
<html><body>
<div class="lqZoneResultatsProduit">
  <div class="numeros">
    <span class="num">3</span><span class="num">12</span><span class="num">19</span><span class="num">24</span>
    <span class="num">31</span><span class="num">40</span><span class="num">45</span>
    <span class="num complementaire">7</span>
  </div>
</div>
<div class="lqZoneStructureDeLots">
  <div class="structure2">
    <div class="numeros"><span class="num">1</span><span class="num">2</span><span class="num">3</span><span class="num">4</span><span class="num">5</span><span class="num">6</span><span class="num">7</span></div>
  </div>
  <div class="structure2">
    <div class="numeros"><span class="num">8</span><span class="num">9</span><span class="num">10</span><span class="num">11</span><span class="num">12</span><span class="num">13</span><span class="num">14</span></div>
  </div>
</div>
</body></html>`

func TestExtractDay_NestedSetContainers(t *testing.T) {
	extractor := NewDefaultExtractor(zap.NewNop())

	record, ok := extractor.ExtractDay(newDoc(t, nestedSetContainersDayHTML), "2025-06-13")

	require.True(t, ok)
	assert.Equal(t, []int{3, 12, 19, 24, 31, 40, 45}, record.Numbers)
	assert.Equal(t, [][]int{
		{1, 2, 3, 4, 5, 6, 7},
		{8, 9, 10, 11, 12, 13, 14},
	}, record.BonusGameSets)
}

func TestExtractDay_DayView(t *testing.T) {
	extractor := NewDefaultExtractor(zap.NewNop())

	record, ok := extractor.ExtractDay(newDoc(t, dayViewHTML), "2025-06-13")

	require.True(t, ok)
	assert.Equal(t, "2025-06-13", record.Date)
	assert.Equal(t, []int{3, 12, 19, 24, 31, 40, 45}, record.Numbers)
	assert.Equal(t, intPtr(7), record.Bonus)
	assert.Equal(t, "day-view", record.Layout)
	assert.Equal(t, [][]int{{1, 2, 3, 4, 5, 6, 7}}, record.BonusGameSets)
}

func TestExtractDay_FallbackScan(t *testing.T) {
	extractor := NewDefaultExtractor(zap.NewNop())

	record, ok := extractor.ExtractDay(newDoc(t, dayViewFallbackHTML), "2025-06-17")

	require.True(t, ok)
	assert.Equal(t, []int{3, 12, 19, 24, 31, 40, 45}, record.Numbers)
	assert.Equal(t, intPtr(7), record.Bonus)
	assert.Equal(t, [][]int{
		{1, 2, 3, 4, 5, 6, 7},
		{8, 9, 10, 11, 12, 13, 14},
	}, record.BonusGameSets)
}

func TestExtractDay_FallbackLookaheadIsBounded(t *testing.T) {
	layout := NewDayViewLayout()
	layout.Lookahead = 1
	extractor := NewExtractor(nil, []Layout{layout}, zap.NewNop())

	record, ok := extractor.ExtractDay(newDoc(t, dayViewFallbackHTML), "2025-06-17")

	require.True(t, ok)
	assert.Equal(t, [][]int{{1, 2, 3, 4, 5, 6, 7}}, record.BonusGameSets)
}

func TestExtractDay_TableRowTakesPriority(t *testing.T) {
	extractor := NewDefaultExtractor(zap.NewNop())

	record, ok := extractor.ExtractDay(newDoc(t, nestedArchiveHTML), "2024-03-15")

	require.True(t, ok)
	assert.Equal(t, "2024-03-15", record.Date)
	assert.Equal(t, "nested-label", record.Layout)
	assert.Equal(t, []int{3, 12, 19, 24, 31, 40, 45}, record.Numbers)
}

func TestExtractDay_NoResults(t *testing.T) {
	extractor := NewDefaultExtractor(zap.NewNop())

	_, ok := extractor.ExtractDay(newDoc(t, `<html><body><div class="numeros"><span class="num">4</span></div></body></html>`), "2025-06-14")

	assert.False(t, ok)
}

type fixedLayout struct{ numbers []int }

func (f fixedLayout) Name() string { return "fixed" }

func (f fixedLayout) Extract(_ *goquery.Selection) (Record, bool) {
	return Record{Numbers: f.numbers, Layout: "fixed"}, true
}

func TestExtractor_AppendedLayoutIsTriedLast(t *testing.T) {
	extractor := NewExtractor(
		[]Layout{NewNestedLabelLayout(), NewLegacySpanLayout(), fixedLayout{numbers: []int{1, 2, 3, 4, 5, 6, 7}}},
		nil,
		zap.NewNop(),
	)

	result := extractor.ExtractArchive(newDoc(t, legacyArchiveHTML))

	require.Len(t, result.Records, 2)
	assert.Equal(t, "legacy-span", result.Records[0].Layout)
	assert.Equal(t, "fixed", result.Records[1].Layout)
	assert.Equal(t, "2016-01-01", result.Records[1].Date)
}
