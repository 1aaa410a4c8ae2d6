// token 签发管理接口使用的 Access Token。
//
// 用法：
//
//	go run ./cmd/token -user ops-admin -role admin
//
// 密钥与有效期读取与服务端相同的配置（config.yaml / CAL_AUTH_JWT_SECRET）。
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"school-calendar/config"
	"school-calendar/pkg/jwt"
)

func main() {
	configPath := flag.String("config", "", "配置文件路径")
	userID := flag.String("user", "admin", "写入 Token 的调用方标识")
	role := flag.String("role", "admin", "角色")
	ttl := flag.Duration("ttl", 0, "有效期，默认使用 auth.access_token_ttl")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}
	if *ttl > 0 {
		cfg.Auth.AccessTokenTTL = *ttl
	}

	token, expiresAt, err := jwt.NewManager(&cfg.Auth).GenerateAccessToken(*userID, *role)
	if err != nil {
		fmt.Fprintf(os.Stderr, "签发 Token 失败: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(token)
	fmt.Fprintf(os.Stderr, "过期时间: %s\n", expiresAt.Format(time.RFC3339))
}
