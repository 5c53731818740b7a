package main

import (
	"github.com/gin-gonic/gin"
	"github.com/kod2ulz/gostart/app"
	"github.com/kod2ulz/gostart/storage"
	"github.com/kod2ulz/gostart/utils"
	"github.com/kod2ulz/paga-business/api"
	"github.com/kod2ulz/paga-business/client"
	"github.com/kod2ulz/paga-business/sql/db"
	"github.com/kod2ulz/paga-business/stores"
)

func main() {
	a := app.Init()
	ctx, log := a.Ctx(), a.Log()

	db, err := db.InitSQL(ctx, log, storage.Config("PAGA_DB"))
	utils.Error.Fail(log.Entry, err, "failed to connect to database")
	defer utils.ErrorFunc[utils.ShFunc1](a, db.Conn.Close, "failed to close database connection")

	store, err := stores.Minio(log, stores.NewMinioConfig())
	utils.Error.Fail(log.Entry, err, "failed to initialise attachment storage")

	pagaClient, err := client.PagaClient(ctx, log,
		client.WithPagaConfig(client.NewPagaClientConfig()), client.WithPagaDB(db), client.WithPagaStore(store))
	utils.Error.Fail(log.Entry, err, "failed to initialise paga client")

	pagaAPI, err := api.Paga(ctx, log, api.WithPagaClient(pagaClient))
	utils.Error.Fail(log.Entry, err, "failed to initialise paga api")

	router := gin.New()
	router.Use(gin.Recovery())
	api.RegisterRoutes(router, pagaAPI)
	api.RegisterHistoryRoutes(router, db)
	api.RegisterMetrics(router)

	addr := utils.Env.Helper("PAGA_GATEWAY").Get("ADDR", ":8080").String()
	log.WithField("addr", addr).Info("starting paga gateway")
	utils.Error.Fail(log.Entry, router.Run(addr), "paga gateway stopped")
}
