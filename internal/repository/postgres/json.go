package postgres

import jsoniter "github.com/json-iterator/go"

// json decodes the jsonb columns
var json = jsoniter.ConfigCompatibleWithStandardLibrary
