package main

import (
	"encoding/json"
	"log"
	"os"

	"github.com/spf13/pflag"

	gameanalytics "github.com/gameanalytics/ga-go-sdk"
)

func main() {
	configFile := pflag.String("config", "", "optional config file (yaml, json or toml)")
	settingsPath := pflag.String("settings", "", "settings file used to persist the user id")
	rootPrefix := pflag.String("root-prefix", "", "namespace prepended to record event ids")
	customUserID := pflag.String("user-id", "", "custom user id overriding the derived one")
	pflag.Parse()

	options, err := gameanalytics.LoadOptions(*configFile)
	if err != nil {
		log.Fatal(err)
	}
	if *settingsPath != "" {
		options.SettingsPath = *settingsPath
	}
	if *rootPrefix != "" {
		options.RootPrefix = *rootPrefix
	}

	client, err := gameanalytics.NewClient(options, nil)
	if err != nil {
		log.Fatal(err)
	}
	defer func() {
		if err := client.Close(); err != nil {
			log.Println(err)
		}
	}()

	if *customUserID != "" {
		client.SetCustomUserID(*customUserID)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(client.SessionStart()); err != nil {
		log.Println(err)
	}
}
