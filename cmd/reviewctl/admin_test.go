package main

import (
	"testing"

	"golang.org/x/crypto/bcrypt"

	"course-review/internal/model"
)

func TestNewAdminUser(t *testing.T) {
	user, err := newAdminUser(" root ", "root@example.com", "Adm1n!pass")
	if err != nil {
		t.Fatalf("newAdminUser 应成功: %v", err)
	}

	if user.Username != "root" {
		t.Errorf("用户名应去除首尾空白，实际=%q", user.Username)
	}
	if user.Role != model.RoleAdmin {
		t.Errorf("期望角色 %s，实际=%s", model.RoleAdmin, user.Role)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("Adm1n!pass")); err != nil {
		t.Errorf("密码哈希与原密码不匹配: %v", err)
	}
}

func TestNewAdminUser_Rejects(t *testing.T) {
	if _, err := newAdminUser("root", "root@example.com", "weak"); err == nil {
		t.Error("弱密码应被拒绝")
	}
	if _, err := newAdminUser("  ", "root@example.com", "Adm1n!pass"); err == nil {
		t.Error("空用户名应被拒绝")
	}
}

func TestRootCmd_Commands(t *testing.T) {
	root := newRootCmd()

	for _, path := range [][]string{{"migrate", "up"}, {"migrate", "down"}, {"create-admin"}, {"promote"}} {
		cmd, _, err := root.Find(path)
		if err != nil {
			t.Fatalf("未找到命令 %v: %v", path, err)
		}
		if cmd.Name() != path[len(path)-1] {
			t.Errorf("期望命令 %s，实际=%s", path[len(path)-1], cmd.Name())
		}
	}

	down, _, _ := root.Find([]string{"migrate", "down"})
	steps, err := down.Flags().GetInt("steps")
	if err != nil {
		t.Fatalf("读取 steps 参数失败: %v", err)
	}
	if steps != 1 {
		t.Errorf("steps 默认值期望 1，实际=%d", steps)
	}
}
