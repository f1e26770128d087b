package guard

import (
	"os"
	"sync"
)

var once sync.Once

func init() {
	once.Do(func() {
		if os.Getenv("SCRO_TEST_MODE") == "" {
			_ = os.Setenv("SCRO_TEST_MODE", "1")
		}
	})
}
