//go:generate go run go.uber.org/mock/mockgen -source=topics_svc.go -destination=../../mocks/mock_topics_svc.go -package=mocks
package topics

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/redis/go-redis/v9"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

const (
	CountsKey = "topics:counts"
	StatusKey = "topics:status"
	DirtyKey  = "topics:dirty"

	StatusNormal   = "normal"
	StatusTrending = "trending"

	suggestFn = "topic_suggest"
)

var ErrEmptyTopic = errors.New("topic is required")

// Catalog is the list of topics offered to clients. Matchmaking accepts any
// topic, but only catalog topics are counted so clients cannot grow the
// counters or the topics table with arbitrary strings.
var Catalog = []string{
	"Donald Trump", "Democrats", "Republicans", "Flat-Earth", "Abortion",
	"Religion", "America", "China", "Russia", "Israel/Palestine", "Covid-19",
	"Climate Change", "Gun Control", "Free Speech", "Immigration", "Taxes",
	"Capitalism vs. Socialism", "Death Penalty", "Same-Sex Marriage",
	"Animal Rights", "Welfare", "Artificial Intelligence", "Big Tech", "Other",
}

type Topic struct {
	Name            string `json:"name"`
	SuggestionCount int64  `json:"suggestionCount"`
	Status          string `json:"status"`
}

type ITopicService interface {
	Suggest(ctx context.Context, topic string) error
	List(ctx context.Context) ([]Topic, error)
}

type topicService struct {
	rdc       *redis.Client
	threshold int
}

var _ ITopicService = (*topicService)(nil)

// NewTopicService needs the topics Redis library loaded. A threshold of zero
// never marks a topic as trending.
func NewTopicService(rdc *redis.Client, threshold int) ITopicService {
	if threshold < 0 {
		threshold = 0
	}
	return &topicService{rdc: rdc, threshold: threshold}
}

// Suggest counts one match request for topic. Topics outside the catalog are
// ignored.
func (svc *topicService) Suggest(ctx context.Context, topic string) error {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return ErrEmptyTopic
	}
	if !lo.Contains(Catalog, topic) {
		zap.L().Debug("topics.uncatalogued", zap.Int("len", len(topic)))
		return nil
	}
	res, err := svc.rdc.FCall(ctx, suggestFn, []string{CountsKey, StatusKey, DirtyKey}, topic, svc.threshold).Slice()
	if err != nil {
		return fmt.Errorf("%s: %w", suggestFn, err)
	}
	if len(res) == 2 && res[1] == StatusTrending {
		zap.L().Debug("topics.trending", zap.String("topic", topic), zap.Any("count", res[0]))
	}
	return nil
}

// List returns the catalog in its fixed order with the current counters.
func (svc *topicService) List(ctx context.Context) ([]Topic, error) {
	pipe := svc.rdc.Pipeline()
	countsCmd := pipe.HMGet(ctx, CountsKey, Catalog...)
	statusCmd := pipe.HMGet(ctx, StatusKey, Catalog...)
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("load topic counters: %w", err)
	}
	counts := countsCmd.Val()
	statuses := statusCmd.Val()

	out := make([]Topic, len(Catalog))
	for i, name := range Catalog {
		out[i] = Topic{Name: name, Status: StatusNormal}
		if i < len(counts) {
			if raw, ok := counts[i].(string); ok {
				out[i].SuggestionCount, _ = strconv.ParseInt(raw, 10, 64)
			}
		}
		if i < len(statuses) && statuses[i] == StatusTrending {
			out[i].Status = StatusTrending
		}
	}
	return out, nil
}
