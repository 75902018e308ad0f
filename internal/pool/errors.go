package pool

import "scout/internal/scerr"

var errClosed = scerr.New(scerr.KindConnect, "session is closed")
