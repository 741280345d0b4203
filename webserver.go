package main

import (
	"encoding/hex"
	"errors"
	"regexp"
	"strconv"

	"golang.org/x/net/websocket"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

func handleErrors(c *gin.Context) {
	c.Next()

	if len(c.Errors) > 0 {
		c.JSON(-1, c.Errors) // -1 == not override the current error code
	}
}

func webserver(port int) {
	r := gin.Default()
	r.Use(handleErrors) // attach error handling middleware

	api := r.Group("/api")

	api.GET("/state", func(c *gin.Context) {
		c.JSON(200, state.snapshot())
	})

	api.PUT("/state", func(c *gin.Context) {
		var args APIStateConfig

		if c.Bind(&args) != nil {
			log.Printf("bind failed")
			return
		}

		err := applyState(&args)
		switch {
		case err == nil:
			c.JSON(200, state.snapshot())
		case errors.Is(err, errEngineBusy):
			c.AbortWithError(503, err)
		default:
			c.AbortWithError(400, err)
		}
	})

	api.POST("/deflector", func(c *gin.Context) {
		err := remote.MoveDeflector()
		if errors.Is(err, errEngineBusy) {
			c.AbortWithError(503, err)
			return
		}
		c.JSON(200, gin.H{"sent": true})
	})

	api.POST("/raw/:data", func(c *gin.Context) {
		matched, _ := regexp.MatchString("^[a-f0-9]{6}$", c.Param("data"))
		if !matched {
			c.AbortWithError(400, errors.New("data must be a 6 character hex string"))
			return
		}

		repeat := 1
		if rs := c.Query("repeat"); rs != "" {
			var err error
			repeat, err = strconv.Atoi(rs)
			if err != nil || repeat < 1 || repeat > 8 {
				c.AbortWithError(400, errors.New("repeat must be an integer between 1 and 8"))
				return
			}
		}

		d, _ := hex.DecodeString(c.Param("data"))
		var payload [3]byte
		copy(payload[:], d)

		err := remote.SendRaw(payload, repeat)
		if errors.Is(err, errEngineBusy) {
			c.AbortWithError(503, err)
			return
		}
		c.JSON(200, gin.H{"sent": true})
	})

	api.POST("/replay", func(c *gin.Context) {
		body, err := c.GetRawData()
		if err != nil {
			c.AbortWithError(400, err)
			return
		}

		err = remote.replay(string(body))
		switch {
		case err == nil:
			c.JSON(200, gin.H{"sent": true})
		case errors.Is(err, errEngineBusy):
			c.AbortWithError(503, err)
		default:
			c.AbortWithError(400, err)
		}
	})

	api.POST("/stop", func(c *gin.Context) {
		remote.Stop()
		c.JSON(200, gin.H{"idle": remote.IsIdle()})
	})

	api.GET("/status", func(c *gin.Context) {
		c.JSON(200, gin.H{"idle": remote.IsIdle()})
	})

	api.GET("/ws", func(c *gin.Context) {
		h := websocket.Handler(attachListener)
		h.ServeHTTP(c.Writer, c.Request)
	})

	r.Run(":" + strconv.Itoa(port)) // listen and serve on 0.0.0.0:port
}

func attachListener(ws *websocket.Conn) {
	listener := &EventListener{make(chan []byte, 32)}

	defer func() {
		Dispatcher.deregister <- listener
		log.Printf("closing websocket")
		err := ws.Close()
		if err != nil {
			log.Println("error on ws close:", err.Error())
		}
	}()

	Dispatcher.register <- listener

	// new listeners get the current snapshots first
	for source, data := range stateCache.dump() {
		ws.Write(serializeEvent(source, data))
	}

	// wait for events
	for message := range listener.ch {
		_, err := ws.Write(message)
		if err != nil {
			log.Printf("error on websocket write: %s", err.Error())
			return
		}
	}
	log.Printf("listener channel closed")
}
