package gameanalytics

import (
	"github.com/gameanalytics/ga-go-sdk/api"
	"github.com/gameanalytics/ga-go-sdk/util"
)

type Platform = api.Platform
type Record = api.Record
type FieldNames = api.FieldNames
type SessionStart = api.SessionStart
type Logger = util.Logger
type DiscardLogger = util.DiscardLogger

func SetLogger(log Logger) { util.SetLogger(log) }
