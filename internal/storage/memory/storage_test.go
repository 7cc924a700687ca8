package memory

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/shadowsprint/internal/storage"
	"github.com/mcoot/shadowsprint/internal/storage/storagetest"
)

func TestStorageSuite(t *testing.T) {
	suite.Run(t, &storagetest.StoreSuite{
		NewStore: func(t *testing.T) storage.Store {
			return New()
		},
	})
}
