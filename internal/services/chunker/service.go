// -----------------------------------------------------------------------
// Chunk Packer - Greedy sentence packing into token-bounded windows
// -----------------------------------------------------------------------

package chunker

import (
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/scindo/internal/interfaces"
)

// Window is one packed span of page text within the token budget.
// HardSplit marks pieces cut at token boundaries instead of sentence
// boundaries; those carry no guaranteed overlap with their neighbors.
type Window struct {
	Text          string
	TokenCount    int
	SentenceCount int
	HardSplit     bool
}

// Service packs page sentences into overlapping windows. Greedy: fill a
// window until the next sentence would push it past ChunkSize, close it,
// seed the next window with trailing overlap, then continue with the
// sentence that overflowed.
type Service struct {
	config   *Config
	counter  interfaces.TokenCounter
	logger   arbor.ILogger
	overlap  int
	joinCost int
}

// NewService validates the config and builds a packer bound to one token
// counter. The overlap budget is resolved (and clamped) here, once.
func NewService(config *Config, counter interfaces.TokenCounter, logger arbor.ILogger) (*Service, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Service{
		config:   config,
		counter:  counter,
		logger:   logger,
		overlap:  config.EffectiveOverlap(),
		joinCost: counter.Count(" "),
	}, nil
}

// Overlap returns the resolved overlap budget in tokens
func (s *Service) Overlap() int {
	return s.overlap
}

// PackPage segments one page's sentences into windows, each within
// ChunkSize tokens. Returns the kept windows in order plus the number of
// windows dropped by the minimum-size filter. Empty input yields nil.
func (s *Service) PackPage(sentences []string) ([]Window, int) {
	var clean []string
	for _, sentence := range sentences {
		if strings.TrimSpace(sentence) != "" {
			clean = append(clean, sentence)
		}
	}
	if len(clean) == 0 {
		return nil, 0
	}

	// Whole page within budget: one window, never filtered.
	pageText := strings.Join(clean, " ")
	if pageTokens := s.counter.Count(pageText); pageTokens <= s.config.ChunkSize {
		return []Window{{Text: pageText, TokenCount: pageTokens, SentenceCount: len(clean)}}, 0
	}

	var out []Window
	var window []string
	windowTokens := 0

	for _, sentence := range clean {
		tokens := s.counter.Count(sentence)

		if cost := s.appendCost(window, tokens); windowTokens+cost <= s.config.ChunkSize {
			window = append(window, sentence)
			windowTokens += cost
			continue
		}

		// Close the running window and seed the next one with trailing
		// overlap, sized so the overflowing sentence still fits after it.
		if len(window) > 0 {
			out = s.emit(out, window)
			window, windowTokens = s.carryOverlap(window, windowTokens, tokens)
		}

		if cost := s.appendCost(window, tokens); windowTokens+cost <= s.config.ChunkSize {
			window = append(window, sentence)
			windowTokens += cost
			continue
		}

		// The sentence alone exceeds the budget: token-level hard split,
		// each piece emitted as its own window.
		for _, piece := range s.counter.Split(sentence, s.config.ChunkSize) {
			out = append(out, Window{
				Text:          piece,
				TokenCount:    s.counter.Count(piece),
				SentenceCount: 1,
				HardSplit:     true,
			})
		}
		window = nil
		windowTokens = 0
	}

	if len(window) > 0 {
		out = s.emit(out, window)
	}

	return s.filter(out)
}

// appendCost is the token cost of adding a sentence to the window,
// including the joining space for a non-empty window
func (s *Service) appendCost(window []string, tokens int) int {
	if len(window) == 0 {
		return tokens
	}
	return tokens + s.joinCost
}

// emit closes a window: joins its sentences with single spaces and
// recounts the joined text. Token merges across sentence boundaries can
// land the recount over the running estimate; on that rare overrun the
// joined text is hard split instead of emitted oversized.
func (s *Service) emit(out []Window, window []string) []Window {
	text := strings.Join(window, " ")
	tokens := s.counter.Count(text)
	if tokens <= s.config.ChunkSize {
		return append(out, Window{Text: text, TokenCount: tokens, SentenceCount: len(window)})
	}

	s.logger.Debug().Int("tokens", tokens).Int("chunk_size", s.config.ChunkSize).Msg("Window recount over budget, hard splitting")
	for _, piece := range s.counter.Split(text, s.config.ChunkSize) {
		out = append(out, Window{
			Text:          piece,
			TokenCount:    s.counter.Count(piece),
			SentenceCount: 1,
			HardSplit:     true,
		})
	}
	return out
}

// carryOverlap chooses the content the next window starts with: the
// largest trailing run of whole sentences within the overlap budget,
// shrunk so the overflowing sentence (nextTokens) still fits inside
// ChunkSize behind it. When not even the last whole sentence fits, a
// token tail of it is carried instead, so consecutive windows keep a
// positive overlap. A window that filled the budget exactly carries
// nothing forward.
func (s *Service) carryOverlap(closed []string, closedTokens, nextTokens int) ([]string, int) {
	if s.overlap <= 0 || closedTokens >= s.config.ChunkSize {
		return nil, 0
	}

	budget := s.overlap
	if room := s.config.ChunkSize - nextTokens - s.joinCost; room < budget {
		budget = room
	}
	if budget <= 0 {
		return nil, 0
	}

	begin := len(closed)
	total := 0
	for begin > 0 {
		cost := s.counter.Count(closed[begin-1])
		if begin < len(closed) {
			cost += s.joinCost
		}
		if total+cost > budget {
			break
		}
		total += cost
		begin--
	}
	if begin < len(closed) {
		carry := make([]string, len(closed)-begin)
		copy(carry, closed[begin:])
		return carry, total
	}

	tail := s.counter.Tail(closed[len(closed)-1], budget)
	if tail == "" {
		return nil, 0
	}
	return []string{tail}, s.counter.Count(tail)
}

// filter drops windows under MinChunkSize tokens, except a page's only
// window, which is always kept
func (s *Service) filter(out []Window) ([]Window, int) {
	if len(out) <= 1 || s.config.MinChunkSize <= 0 {
		return out, 0
	}

	kept := make([]Window, 0, len(out))
	dropped := 0
	for _, w := range out {
		if w.TokenCount >= s.config.MinChunkSize {
			kept = append(kept, w)
		} else {
			dropped++
		}
	}
	if dropped > 0 {
		s.logger.Debug().
			Int("dropped", dropped).
			Int("min_chunk_size", s.config.MinChunkSize).
			Msg("Dropped undersized windows")
	}
	return kept, dropped
}
