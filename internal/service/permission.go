package service

import (
	"net/http"

	"github.com/BuzzLyutic/taskhub-api/internal/model"
)

func IsSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}

// CanMutate allows reads for everyone and writes only for the owner.
// Anything it cannot positively identify is denied.
func CanMutate(ownerID int64, caller model.Caller, method string) bool {
	if IsSafeMethod(method) {
		return true
	}
	return caller.Authenticated() && ownerID != 0 && ownerID == caller.UserID
}

// ownerScope returns the owner id that list queries are restricted to.
func ownerScope(caller model.Caller) (int64, error) {
	if !caller.Authenticated() {
		return 0, ErrUnauthorized
	}
	return caller.UserID, nil
}
