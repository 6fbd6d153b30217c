package codec

import (
	"testing"

	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/encoding"
)

func TestJSON_Is_Registered(t *testing.T) {
	req := require.New(t)

	req.NotNil(encoding.GetCodec(Name))
}

func TestJSON_Unmarshal_Empty_Payload(t *testing.T) {
	req := require.New(t)
	var v struct{ A int }

	req.NoError(JSON{}.Unmarshal(nil, &v))
	req.Zero(v.A)
}
