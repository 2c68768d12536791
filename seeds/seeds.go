package seeds

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/actuallystonmai/moodtune-service/internal/logging"
)

func Setup(ctx context.Context, pool *pgxpool.Pool) error {
	log := logging.Component("seed")
	rng := rand.New(rand.NewPCG(42, 42))

	// Truncate existing data before insert
	log.Info().Msg("truncating existing data")
	if _, err := pool.Exec(ctx, `
		TRUNCATE recently_played, songs RESTART IDENTITY CASCADE
	`); err != nil {
		return fmt.Errorf("truncate: %w", err)
	}

	log.Info().Msg("inserting songs")
	n, err := seedSongs(ctx, pool, rng)
	if err != nil {
		return fmt.Errorf("seed songs: %w", err)
	}

	log.Info().Int("songs", n).Msg("seeding complete")
	return nil
}

type profile struct {
	mood         string
	danceability [2]float64
	energy       [2]float64
	valence      [2]float64
	acousticness [2]float64
	tempo        [2]float64
}

var profiles = []profile{
	{"happy", [2]float64{0.6, 0.95}, [2]float64{0.6, 0.95}, [2]float64{0.6, 0.95}, [2]float64{0.05, 0.4}, [2]float64{110, 150}},
	{"sad", [2]float64{0.15, 0.45}, [2]float64{0.1, 0.45}, [2]float64{0.05, 0.35}, [2]float64{0.5, 0.95}, [2]float64{60, 95}},
	{"neutral", [2]float64{0.35, 0.65}, [2]float64{0.35, 0.65}, [2]float64{0.4, 0.6}, [2]float64{0.3, 0.7}, [2]float64{90, 125}},
}

var titles = map[string][]string{
	"happy": {
		"Walking on Sunshine", "Good as Hell", "Happy", "Uptown Funk",
		"Shake It Off", "Dancing Queen", "Mr. Blue Sky", "Levitating",
		"September", "Can't Stop the Feeling!", "Hey Ya!", "Lovely Day",
		"Sugar", "Dynamite", "Valerie", "I Gotta Feeling",
		"Shut Up and Dance", "Good Vibrations", "Three Little Birds", "Electric Feel",
	},
	"sad": {
		"Someone Like You", "Hurt", "Everybody Hurts", "Fix You",
		"The Night We Met", "Skinny Love", "Tears in Heaven", "Mad World",
		"Nothing Compares 2 U", "Creep", "Liability", "Hallelujah",
		"Let Her Go", "All I Want", "Say Something", "Jar of Hearts",
		"The Scientist", "Back to Black", "Motion Sickness", "Re: Stacks",
	},
	"neutral": {
		"Breathe", "Clocks", "Midnight City", "Teardrop",
		"Holocene", "Intro", "Weightless", "Redbone",
		"Riptide", "Pink + White", "Ocean Eyes", "Sunflower",
		"Nights", "Retrograde", "Bloodstream", "Dreams",
		"Heartbeats", "Glue", "Porcelain", "Innerbloom",
	},
}

var artists = []string{
	"The Weekend Club", "Nova Lane", "Marlowe", "Paper Harbors",
	"June & the Tides", "Kite Theory", "Silver Arcade", "Odessa Grey",
}

func seedSongs(ctx context.Context, pool *pgxpool.Pool, rng *rand.Rand) (int, error) {
	rows := []string{}
	args := []any{}

	add := func(title, artist, album *string, features map[string]any) {
		base := len(args)
		rows = append(rows, fmt.Sprintf("($%d, $%d, $%d, $%d)", base+1, base+2, base+3, base+4))
		args = append(args, title, artist, album, features)
	}

	for _, p := range profiles {
		for _, title := range titles[p.mood] {
			artist := artists[rng.IntN(len(artists))]
			album := fmt.Sprintf("%s Sessions", strings.ToUpper(p.mood[:1])+p.mood[1:])
			add(&title, &artist, &album, map[string]any{
				"danceability": between(rng, p.danceability),
				"energy":       between(rng, p.energy),
				"valence":      between(rng, p.valence),
				"acousticness": between(rng, p.acousticness),
				"tempo":        math.Round(between(rng, p.tempo)*10) / 10,
			})
		}
	}

	// Records the catalog has to tolerate: numeric strings, missing
	// keys and metadata, and a non-numeric feature that gets excluded.
	loose, demo := "Loose Ends", "Demo Tape"
	add(&loose, nil, nil, map[string]any{
		"danceability": "0.72",
		"energy":       "0.81",
		"valence":      0.77,
		"tempo":        "128",
	})
	add(nil, nil, nil, map[string]any{"valence": 0.2})
	add(&demo, nil, nil, map[string]any{
		"danceability": 0.5,
		"tempo":        "unknown",
	})

	query := "INSERT INTO songs (title, artist, album, features) VALUES " + strings.Join(rows, ", ")
	if _, err := pool.Exec(ctx, query, args...); err != nil {
		return 0, err
	}
	return len(rows), nil
}

func between(rng *rand.Rand, r [2]float64) float64 {
	v := r[0] + rng.Float64()*(r[1]-r[0])
	return math.Round(v*1000) / 1000
}
