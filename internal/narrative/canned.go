package narrative

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/vovakirdan/pawn-school/internal/chess"
)

var cannedStories = map[chess.PieceType][]string{
	chess.Knight: {
		"Kiki the knight hopped over the garden fence in one big L-shaped jump and landed right next to her best friend.",
		"The little knight bounced up two squares and over one, giggling all the way to the shining star.",
	},
	chess.Rook: {
		"Roco the rook rolled straight down the road, never turning, until he reached his cozy castle.",
		"The strong rook zoomed in a straight line across the board to help a friend carry a heavy box.",
	},
	chess.Pawn: {
		"Pip the pawn took one brave step forward every day until one morning he woke up wearing a golden crown.",
		"The little pawn marched ahead, one square at a time, and everyone cheered when she reached the other side.",
	},
	chess.Bishop: {
		"Bea the bishop slid sideways on her slippery diagonal path and laughed as she found a sparkling gem.",
		"The silly bishop zigzagged corner to corner and always arrived exactly where she wanted to be.",
	},
	chess.Queen: {
		"Queen Quinn zipped up, down and all around the board to wave hello to every single square.",
		"The mighty queen raced across the whole kingdom in one move to carry her shiny shield home.",
	},
	chess.King: {
		"King Kato took one careful little step at a time and still made it home in time for dinner.",
		"The careful king tiptoed one square over, then one more, and gave everyone a big royal hug.",
	},
}

// Canned serves built-in stories without any network access.
type Canned struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewCanned creates a Canned generator. Zero seed is time-based.
func NewCanned(seed int64) *Canned {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Canned{rng: rand.New(rand.NewSource(seed))}
}

func (c *Canned) Generate(ctx context.Context, piece chess.PieceType) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	stories, ok := cannedStories[piece]
	if !ok {
		return "", fmt.Errorf("narrative: no story for piece %q", piece)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return stories[c.rng.Intn(len(stories))], nil
}
