package main

import (
	"context"
	"log"
	"os"

	"github.com/elimuhub/elimu/core"
	"github.com/elimuhub/elimu/core/identity"
	"github.com/elimuhub/elimu/core/user"
	inmemkv "github.com/elimuhub/elimu/storage/kvstore/inmem"
	pgkv "github.com/elimuhub/elimu/storage/kvstore/postgres"
	rediskv "github.com/elimuhub/elimu/storage/kvstore/redis"
)

var logger *log.Logger

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	conf := core.NewConfig()

	// set up KV store
	kv, closeKV, err := setUpStore(conf)
	errAndDie(err)
	defer closeKV()

	// start CLI
	cli := commandLine{
		provider:   identity.NewJWTProvider(kv, conf),
		profileSvc: user.NewService(kv),
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func setUpStore(conf *core.Config) (core.KV, func(), error) {
	switch {
	case conf.Database.URL != "":
		store, err := pgkv.Open(conf.Database.URL)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { _ = store.Close() }, nil
	case conf.Redis.URL != "":
		store, err := rediskv.Open(context.Background(), conf.Redis.URL)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { _ = store.Close() }, nil
	default:
		return inmemkv.Open(), func() {}, nil
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}
