package journal

import (
	"fmt"

	"github.com/shipseva/docupload/internal/common"
)

var ErrUnknownAttempt = fmt.Errorf("%w: unknown attempt", common.ErrNotFound)
