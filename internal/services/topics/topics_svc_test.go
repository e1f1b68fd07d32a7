package topics

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuggest(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	svc := NewTopicService(rdb, 3)

	mock.ExpectDo("fcall", suggestFn, 3, CountsKey, StatusKey, DirtyKey, "Taxes", 3).
		SetVal([]interface{}{int64(3), StatusTrending})
	require.NoError(t, svc.Suggest(context.Background(), " Taxes "))

	mock.ExpectDo("fcall", suggestFn, 3, CountsKey, StatusKey, DirtyKey, "Taxes", 3).
		SetErr(errors.New("ERR Function not found"))
	assert.Error(t, svc.Suggest(context.Background(), "Taxes"))

	assert.ErrorIs(t, svc.Suggest(context.Background(), "  "), ErrEmptyTopic)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSuggest_IgnoresUncataloguedTopics(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	svc := NewTopicService(rdb, 3)

	for _, topic := range []string{"Pineapple on pizza", strings.Repeat("x", 10000), "taxes"} {
		require.NoError(t, svc.Suggest(context.Background(), topic))
	}
	assert.NoError(t, mock.ExpectationsWereMet(), "no counter is touched")
}

func catalogVals(set map[string]string) []interface{} {
	out := make([]interface{}, len(Catalog))
	for i, name := range Catalog {
		if v, ok := set[name]; ok {
			out[i] = v
		}
	}
	return out
}

func TestList(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	svc := NewTopicService(rdb, 3)

	mock.ExpectHMGet(CountsKey, Catalog...).SetVal(catalogVals(map[string]string{
		"Taxes":   "4",
		"Welfare": "1",
	}))
	mock.ExpectHMGet(StatusKey, Catalog...).SetVal(catalogVals(map[string]string{
		"Taxes":   StatusTrending,
		"Welfare": StatusNormal,
	}))

	got, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, got, len(Catalog))

	assert.Equal(t, Topic{Name: "Donald Trump", Status: StatusNormal}, got[0])
	byName := map[string]Topic{}
	for _, tp := range got {
		byName[tp.Name] = tp
	}
	assert.Equal(t, Topic{Name: "Taxes", SuggestionCount: 4, Status: StatusTrending}, byName["Taxes"])
	assert.Equal(t, int64(1), byName["Welfare"].SuggestionCount)
	assert.Equal(t, "Other", got[len(got)-1].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestList_Empty(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	svc := NewTopicService(rdb, 0)

	mock.ExpectHMGet(CountsKey, Catalog...).SetVal(make([]interface{}, len(Catalog)))
	mock.ExpectHMGet(StatusKey, Catalog...).SetVal(make([]interface{}, len(Catalog)))

	got, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, len(Catalog))
	for _, tp := range got {
		assert.Zero(t, tp.SuggestionCount)
		assert.Equal(t, StatusNormal, tp.Status)
	}
}
