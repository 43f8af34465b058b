package util

import (
	"crypto/md5"
	"encoding/hex"
	"strconv"
	"strings"

	"github.com/quakeboard/api/pkg/model"
)

// HashCollection creates an MD5 fingerprint over feature IDs and update times,
// used to tell whether a refresh actually changed the data.
func HashCollection(features []model.Feature) string {
	builder := strings.Builder{}
	for _, f := range features {
		builder.WriteString(f.ID)
		builder.WriteString("|")
		builder.WriteString(strconv.FormatInt(f.UpdatedAt, 10))
		builder.WriteString(";")
	}
	return hashString(builder.String())
}

func hashString(input string) string {
	sum := md5.Sum([]byte(input))
	return hex.EncodeToString(sum[:])
}
