package mapclient_test

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/driftline/chainwatch/internal/domain"
	"github.com/driftline/chainwatch/internal/mapclient"
	"github.com/driftline/chainwatch/internal/mocks"
)

func TestGetChainSnapshot(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	httpClient := mocks.NewMockHTTPClient(ctrl)
	client := mapclient.NewClient("https://maps.example.com/", httpClient)

	httpClient.EXPECT().
		Get(gomock.Any(), "https://maps.example.com/api/maps/42/snapshot", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, result interface{}) error {
			snapshot := result.(*domain.ChainSnapshot)
			snapshot.Systems = []domain.SystemPayload{
				{SolarSystemID: 31000001, SolarSystemName: "J123456"},
			}
			snapshot.Inhabitants = []domain.InhabitantPayload{
				{CharacterID: 100, CharacterName: "Pilot One", SolarSystemID: 31000001},
			}
			return nil
		})

	snapshot, err := client.GetChainSnapshot(context.Background(), 42)
	require.NoError(t, err)

	require.Len(t, snapshot.Systems, 1)
	assert.Equal(t, "J123456", snapshot.Systems[0].SolarSystemName)
	require.Len(t, snapshot.Inhabitants, 1)
	assert.Equal(t, int64(100), snapshot.Inhabitants[0].CharacterID)
	assert.Empty(t, snapshot.Connections)
}

func TestGetChainSnapshot_HTTPError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	httpClient := mocks.NewMockHTTPClient(ctrl)
	client := mapclient.NewClient("https://maps.example.com", httpClient)

	httpClient.EXPECT().
		Get(gomock.Any(), "https://maps.example.com/api/maps/42/snapshot", gomock.Any()).
		Return(errors.New("connection refused"))

	_, err := client.GetChainSnapshot(context.Background(), 42)
	assert.Error(t, err)
}
