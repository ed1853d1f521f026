package rooms

import (
	"net/http"

	"github.com/fuseroom/fuseroom/internal/presentation/apierror"
)

func writeRoomError(w http.ResponseWriter, err error) {
	apierror.Write(w, err)
}
