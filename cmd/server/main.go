/*
 * @author: sun977
 * @date: 2025.11.20
 * @description: 主程序入口
 * @func: 初始化应用、配置路由、启动服务器、等待中断信号
 */

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"menuguard/internal/app/server"
)

func main() {
	var (
		configPath = flag.String("config", "", "配置文件目录(默认 ./configs,可由 MENUGUARD_CONFIG_PATH 覆盖)")
		env        = flag.String("env", "", "运行环境(dev/test/prod,可由 MENUGUARD_ENV 覆盖)")
	)
	flag.Parse()

	// 创建应用实例
	app, err := server.NewApp(*configPath, *env)
	if err != nil {
		log.Fatalf("Failed to create app: %v", err)
	}
	defer func() {
		if err := app.Close(); err != nil {
			log.Printf("Failed to close app: %v", err)
		}
	}()

	// 获取配置和Gin引擎
	cfg := app.GetConfig()
	engine := app.GetRouter().GetEngine()

	// 创建HTTP服务器
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:           addr,
		Handler:        engine,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
	}

	// 启动服务器的goroutine
	go func() {
		log.Printf("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// 等待中断信号以优雅地关闭服务器
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// 给服务器5秒钟的时间来完成现有请求
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	fmt.Println("Server exiting")
}
