package builder

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/gibberify/internal/adapter/fsstore"
	"github.com/heartmarshall/gibberify/internal/config"
	"github.com/heartmarshall/gibberify/internal/dataset"
	"github.com/heartmarshall/gibberify/internal/domain"
)

// downloaderMock counts calls and serves canned data.
type downloaderMock struct {
	RawFunc       func(ctx context.Context, lang string) ([]byte, error)
	WordsFunc     func(ctx context.Context, lang string) (domain.WordPool, error)
	SyllablesFunc func(ctx context.Context, lang string) (domain.SyllablePool, error)
	PatternsFunc  func(ctx context.Context, lang string) ([]byte, error)

	raw, words, syllables, patterns atomic.Int32
}

func (m *downloaderMock) Raw(ctx context.Context, lang string) ([]byte, error) {
	m.raw.Add(1)
	return m.RawFunc(ctx, lang)
}

func (m *downloaderMock) Words(ctx context.Context, lang string) (domain.WordPool, error) {
	m.words.Add(1)
	return m.WordsFunc(ctx, lang)
}

func (m *downloaderMock) Syllables(ctx context.Context, lang string) (domain.SyllablePool, error) {
	m.syllables.Add(1)
	return m.SyllablesFunc(ctx, lang)
}

func (m *downloaderMock) Patterns(ctx context.Context, lang string) ([]byte, error) {
	m.patterns.Add(1)
	return m.PatternsFunc(ctx, lang)
}

func newDownloader() *downloaderMock {
	return &downloaderMock{
		RawFunc: func(_ context.Context, lang string) ([]byte, error) {
			return []byte("4\nTesta/S\nparola\nNASA\nstella\n"), nil
		},
		WordsFunc: func(_ context.Context, lang string) (domain.WordPool, error) {
			return domain.NewWordPool([]string{"testes", "word"}), nil
		},
		SyllablesFunc: func(_ context.Context, lang string) (domain.SyllablePool, error) {
			pool := domain.SyllablePool{}
			switch lang {
			case "de":
				pool.Add("ge", "ka", "ruk", "sch", "dorf")
			default:
				pool.Add("te", "st", "wo", "rd", "the")
			}
			return pool, nil
		},
		PatternsFunc: func(_ context.Context, lang string) ([]byte, error) {
			return []byte("UTF-8\ne1s\n"), nil
		},
	}
}

func newTestRepo(t *testing.T) *dataset.Repo {
	t.Helper()
	store, err := fsstore.New(t.TempDir(), false)
	require.NoError(t, err)
	return dataset.NewRepo(store, "1.0.0")
}

func newTestLanguages() *config.Languages {
	return &config.Languages{
		RealLangs: []string{"en", "de"},
		GibLangs: map[string]domain.GibSettings{
			"orc": {Pool: []string{"de"}, Enrich: []string{"k"}},
		},
	}
}

func newTestPipeline(repo Repository, dl Downloader, langs *config.Languages) *Pipeline {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewPipeline(log, repo, dl, langs, Config{
		Workers:           2,
		Seed:              7,
		RetainProbability: 0.7,
		HyphenLangs:       []string{"en"},
		Version:           "1.0.0",
	})
}

func TestPipeline_PregeneratedBuild(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	dl := newDownloader()

	summary, err := newTestPipeline(repo, dl, newTestLanguages()).Run(ctx, Options{})
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, summary.RunID)
	assert.Equal(t, 2, summary.Phases[PhaseSyllables].Built)
	assert.Equal(t, 2, summary.Phases[PhaseDicts].Built)
	assert.Equal(t, 1, summary.Phases[PhasePatterns].Built)
	assert.Equal(t, int32(1), dl.patterns.Load())
	assert.Equal(t, int32(2), dl.syllables.Load())

	for _, pair := range [][2]string{{"en", "orc"}, {"orc", "en"}, {"de", "orc"}, {"orc", "de"}} {
		d, err := repo.LoadDictionary(ctx, pair[0], pair[1])
		require.NoError(t, err, "%s-%s", pair[0], pair[1])
		assert.Positive(t, d.Len())
	}
}

func TestPipeline_SecondRunSkipsEverything(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	dl := newDownloader()
	p := newTestPipeline(repo, dl, newTestLanguages())

	_, err := p.Run(ctx, Options{})
	require.NoError(t, err)
	before, err := repo.LoadDictionary(ctx, "en", "orc")
	require.NoError(t, err)

	summary, err := p.Run(ctx, Options{})
	require.NoError(t, err)

	assert.Equal(t, 0, summary.Phases[PhaseSyllables].Built)
	assert.Equal(t, 2, summary.Phases[PhaseSyllables].Skipped)
	assert.Equal(t, 0, summary.Phases[PhaseDicts].Built)
	assert.Equal(t, 2, summary.Phases[PhaseDicts].Skipped)
	assert.Equal(t, int32(2), dl.syllables.Load(), "nothing downloaded twice")

	after, err := repo.LoadDictionary(ctx, "en", "orc")
	require.NoError(t, err)
	assert.Equal(t, before.CreatedAt, after.CreatedAt)
}

func TestPipeline_RebuildDicts(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	p := newTestPipeline(repo, newDownloader(), newTestLanguages())

	_, err := p.Run(ctx, Options{})
	require.NoError(t, err)

	summary, err := p.Run(ctx, Options{RebuildDicts: true})
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Phases[PhaseDicts].Built)
	assert.Equal(t, 0, summary.Phases[PhaseSyllables].Built)
}

func TestPipeline_ChangedSettingsRebuildOnlyThatLanguage(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	langs := newTestLanguages()
	langs.GibLangs["elv"] = domain.GibSettings{Pool: []string{"en"}}

	_, err := newTestPipeline(repo, newDownloader(), langs).Run(ctx, Options{})
	require.NoError(t, err)

	langs.GibLangs["orc"] = domain.GibSettings{Pool: []string{"de", "en"}}
	summary, err := newTestPipeline(repo, newDownloader(), langs).Run(ctx, Options{})
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Phases[PhaseDicts].Built, "orc pairs rebuilt")
	assert.Equal(t, 2, summary.Phases[PhaseDicts].Skipped, "elv pairs reused")
}

func TestPipeline_FromRaw(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	dl := newDownloader()

	summary, err := newTestPipeline(repo, dl, newTestLanguages()).Run(ctx, Options{FromRaw: true})
	require.NoError(t, err)

	assert.Equal(t, int32(2), dl.raw.Load())
	assert.Equal(t, int32(1), dl.patterns.Load())
	assert.Equal(t, int32(0), dl.syllables.Load())
	assert.Equal(t, 1, summary.Phases[PhasePatterns].Built)

	words, err := repo.LoadWords(ctx, "en")
	require.NoError(t, err)
	assert.Equal(t, domain.WordPool{"parola", "stella", "testa"}, words)

	pool, err := repo.LoadSyllables(ctx, "en")
	require.NoError(t, err)
	assert.True(t, pool.Contains("te"))
	assert.True(t, pool.Contains("sta"))
}

func TestPipeline_ForceSyllablesUsesStoredWords(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	require.NoError(t, repo.SaveWords(ctx, "en", domain.WordPool{"testes"}))
	require.NoError(t, repo.SaveWords(ctx, "de", domain.WordPool{"dorf"}))
	dl := newDownloader()

	summary, err := newTestPipeline(repo, dl, newTestLanguages()).Run(ctx, Options{ForceSyllables: true})
	require.NoError(t, err)

	assert.Equal(t, int32(0), dl.words.Load())
	assert.Equal(t, int32(0), dl.raw.Load())
	assert.Equal(t, 2, summary.Phases[PhaseSyllables].Built)

	pool, err := repo.LoadSyllables(ctx, "en")
	require.NoError(t, err)
	assert.Equal(t, []string{"te"}, pool[2])
	assert.Equal(t, []string{"stes"}, pool[4])
}

func TestPipeline_PatternsAreCached(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	dl := newDownloader()
	p := newTestPipeline(repo, dl, newTestLanguages())

	_, err := p.Run(ctx, Options{ForceSyllables: true})
	require.NoError(t, err)
	summary, err := p.Run(ctx, Options{ForceSyllables: true})
	require.NoError(t, err)

	assert.Equal(t, int32(1), dl.patterns.Load())
	assert.Equal(t, 1, summary.Phases[PhasePatterns].Skipped)

	summary, err = p.Run(ctx, Options{ForceDownload: true})
	require.NoError(t, err)
	assert.Equal(t, int32(2), dl.patterns.Load())
	assert.Equal(t, 1, summary.Phases[PhasePatterns].Built)
}

func TestPipeline_DownloadErrorPropagates(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	dl := newDownloader()
	boom := errors.New("connection refused")
	dl.SyllablesFunc = func(context.Context, string) (domain.SyllablePool, error) { return nil, boom }

	summary, err := newTestPipeline(repo, dl, newTestLanguages()).Run(ctx, Options{})
	require.ErrorIs(t, err, boom)
	assert.ErrorIs(t, summary.Phases[PhaseSyllables].Err, boom)
	assert.NotContains(t, summary.Phases, PhaseDicts)

	keys, err := repo.ListDictionaries(ctx)
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestPipeline_FailedDictBuildSavesNothing(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	langs := newTestLanguages()
	langs.GibLangs["elv"] = domain.GibSettings{Pool: []string{"en"}}

	_, err := newTestPipeline(repo, newDownloader(), langs).Run(ctx, Options{})
	require.NoError(t, err)
	before, err := repo.LoadDictionary(ctx, "en", "orc")
	require.NoError(t, err)

	langs.GibLangs["orc"] = domain.GibSettings{Pool: []string{"de", "en"}}
	langs.GibLangs["elv"] = domain.GibSettings{Pool: []string{"en"}, Remove: []string{"t", "w", "r"}}
	summary, err := newTestPipeline(repo, newDownloader(), langs).Run(ctx, Options{})
	require.ErrorIs(t, err, domain.ErrEmptyPool)
	assert.Equal(t, 0, summary.Phases[PhaseDicts].Built)

	for _, pair := range [][2]string{{"en", "orc"}, {"orc", "en"}, {"de", "orc"}, {"orc", "de"}} {
		d, err := repo.LoadDictionary(ctx, pair[0], pair[1])
		require.NoError(t, err)
		assert.Equal(t, before.Fingerprint, d.Fingerprint, "%s-%s kept", pair[0], pair[1])
	}

	langs.GibLangs["elv"] = domain.GibSettings{Pool: []string{"en"}}
	_, err = newTestPipeline(repo, newDownloader(), langs).Run(ctx, Options{})
	require.NoError(t, err)
	after, err := repo.LoadDictionary(ctx, "en", "orc")
	require.NoError(t, err)
	assert.NotEqual(t, before.Fingerprint, after.Fingerprint)
}

func TestPipeline_InvalidLanguagesFailBeforeWriting(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	dl := newDownloader()
	langs := newTestLanguages()
	langs.GibLangs["orc"] = domain.GibSettings{Pool: []string{"fr"}}

	_, err := newTestPipeline(repo, dl, langs).Run(ctx, Options{})
	require.Error(t, err)
	assert.True(t, domain.IsConfigError(err))
	assert.Equal(t, int32(0), dl.syllables.Load())
}

func TestPipeline_UnknownHyphenLanguage(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	p := NewPipeline(log, repo, newDownloader(), newTestLanguages(), Config{HyphenLangs: []string{"xx"}, RetainProbability: 0.7})

	_, err := p.Run(ctx, Options{})
	assert.ErrorIs(t, err, domain.ErrUnsupportedLanguage)
}

func TestPipeline_EmptyWordListIsConfigError(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	dl := newDownloader()
	dl.RawFunc = func(context.Context, string) ([]byte, error) { return []byte("1\nNASA\n"), nil }

	_, err := newTestPipeline(repo, dl, newTestLanguages()).Run(ctx, Options{FromRaw: true})
	assert.ErrorIs(t, err, domain.ErrEmptyPool)
}
