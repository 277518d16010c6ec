package serverapi

import (
	"context"

	"zlbots/internal/common"

	"github.com/rs/zerolog/log"
)

type ServerApi struct {
	url   string
	proxy common.Proxy
}

func NewServerApi(url string, restrictions []common.Restriction) *ServerApi {
	return &ServerApi{url: url, proxy: common.NewProxy(map[string]string{"Accept": "application/json"}, restrictions)}
}

// Fetch the list of servers the API currently reports as active,
// in the order the API sends them
func (api *ServerApi) GetActiveServers(ctx context.Context) ([]ServerRecord, error) {

	data, err := api.proxy.Request(ctx, api.url)
	if err != nil {
		return nil, err
	}

	servers, err := UnmarshalActiveServers(data)
	if err != nil {
		return nil, err
	}
	log.Debug().Int("servers", len(servers)).Msg("Active servers received")
	return servers, nil
}
