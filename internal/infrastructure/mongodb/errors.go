package mongodb

import (
	"regexp"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/oksasatya/natours-auth/pkg/apperror"
)

// E11000 ... index: email_1 dup key: { email: "a@b.com" }
var dupKey = regexp.MustCompile(`dup key: \{ ?([\w.]+): "?([^"}]*?)"? ?\}`)

func translate(err error) error {
	if err == nil || !mongo.IsDuplicateKeyError(err) {
		return err
	}
	dup := &apperror.DuplicateKeyError{Err: err}
	if m := dupKey.FindStringSubmatch(err.Error()); m != nil {
		dup.Field, dup.Value = m[1], m[2]
	}
	return dup
}
