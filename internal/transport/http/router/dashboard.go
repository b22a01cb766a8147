package router

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"mess-web/internal/core/auth"
	"mess-web/internal/domain"
	"mess-web/internal/session"
	"mess-web/internal/transport/http/ez"
	mdw "mess-web/internal/transport/http/middleware"
	"mess-web/internal/upstream"
	"mess-web/pkg/utils"
)

// DashboardModule 按角色出一屏数据：每个角色正好一个看板，
// 互相看不到对方的内容。挂载时 /dashboard 按会话角色分发，
// /dashboard/{admin,manager,member} 则各自带角色门。
type DashboardModule struct {
	Up       *upstream.Client
	Sessions *session.Manager
}

type adminDashboard struct {
	Role    domain.Role       `json:"role"`
	Profile domain.User       `json:"profile"`
	Stats   domain.AdminStats `json:"stats"`
}

type managerDashboard struct {
	Role    domain.Role           `json:"role"`
	Profile domain.User           `json:"profile"`
	Report  []domain.BudgetReport `json:"report"`
	// Queue 待核销记录。已核销的不会出现，核销按钮自然不会重复给。
	Queue []domain.Bazar `json:"approvalQueue"`
}

type memberDashboard struct {
	Role    domain.Role    `json:"role"`
	Profile domain.User    `json:"profile"`
	Messes  []domain.Mess  `json:"messes"`
	History []domain.Bazar `json:"bazarHistory"`
}

func (m *DashboardModule) Mount(api *gin.RouterGroup) {
	dash := api.Group("/dashboard", mdw.RequireAuth())
	e := ez.New(dash, nil)

	// 会话角色 -> 唯一匹配的看板
	ez.RegisterAction[struct{}, any](e, ez.Action[struct{}, any]{
		Method: http.MethodGet,
		Path:   "",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (any, error) {
			claims := session.FromContext(c)
			switch claims.Role {
			case domain.RoleAdmin:
				return m.admin(c.Request.Context(), m.Sessions.Token(c))
			case domain.RoleManager:
				return m.manager(c.Request.Context(), m.Sessions.Token(c), claims)
			case domain.RoleMember:
				return m.member(c.Request.Context(), m.Sessions.Token(c), claims)
			}
			return nil, ez.Forbidden("unknown role")
		},
	})

	ez.RegisterAction[struct{}, adminDashboard](e, ez.Action[struct{}, adminDashboard]{
		Method: http.MethodGet,
		Path:   "/admin",
		Binder: ez.BindNone,
		Auth:   true, // 双保险：分组有 RequireAuth，这里还要卡角色
		Roles:  []domain.Role{domain.RoleAdmin},
		Handler: func(c *gin.Context, _ *struct{}) (adminDashboard, error) {
			return m.admin(c.Request.Context(), m.Sessions.Token(c))
		},
	})

	ez.RegisterAction[struct{}, managerDashboard](e, ez.Action[struct{}, managerDashboard]{
		Method: http.MethodGet,
		Path:   "/manager",
		Binder: ez.BindNone,
		Auth:   true,
		Roles:  []domain.Role{domain.RoleManager},
		Handler: func(c *gin.Context, _ *struct{}) (managerDashboard, error) {
			return m.manager(c.Request.Context(), m.Sessions.Token(c), session.FromContext(c))
		},
	})

	ez.RegisterAction[struct{}, memberDashboard](e, ez.Action[struct{}, memberDashboard]{
		Method: http.MethodGet,
		Path:   "/member",
		Binder: ez.BindNone,
		Auth:   true,
		Roles:  []domain.Role{domain.RoleMember},
		Handler: func(c *gin.Context, _ *struct{}) (memberDashboard, error) {
			return m.member(c.Request.Context(), m.Sessions.Token(c), session.FromContext(c))
		},
	})
}

// admin 总览：资料 + 三个总量，两路并发取
func (m *DashboardModule) admin(ctx context.Context, token string) (adminDashboard, error) {
	var out adminDashboard
	out.Role = domain.RoleAdmin

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		profile, err := fromEnvelope(m.Up.CurrentUser(gctx, token))
		if err != nil {
			return err
		}
		out.Profile = profile
		return nil
	})
	g.Go(func() error {
		stats, err := fromEnvelope(m.Up.AdminState(gctx, token))
		if err != nil {
			return err
		}
		out.Stats = stats
		return nil
	})
	if err := g.Wait(); err != nil {
		return adminDashboard{}, err
	}
	return out, nil
}

// manager 看板：资料 + 预算对比 + 审批队列，三路并发取
func (m *DashboardModule) manager(ctx context.Context, token string, claims *auth.Claims) (managerDashboard, error) {
	out := managerDashboard{Role: domain.RoleManager}

	var messes []domain.Mess
	var bazars []domain.Bazar

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		profile, err := fromEnvelope(m.Up.CurrentUser(gctx, token))
		if err != nil {
			return err
		}
		out.Profile = profile
		return nil
	})
	g.Go(func() error {
		data, err := fromEnvelope(m.Up.ListMess(gctx, token))
		if err != nil {
			return err
		}
		messes = data
		return nil
	})
	g.Go(func() error {
		data, err := fromEnvelope(m.Up.ManagerBazars(gctx, token))
		if err != nil {
			return err
		}
		bazars = data
		return nil
	})
	if err := g.Wait(); err != nil {
		return managerDashboard{}, err
	}

	out.Report = buildBudgetReport(claims.UID, messes, bazars)
	out.Queue = pendingOnly(bazars)
	return out, nil
}

// member 看板：资料 + 所在 mess + 自己的采购历史
func (m *DashboardModule) member(ctx context.Context, token string, claims *auth.Claims) (memberDashboard, error) {
	out := memberDashboard{Role: domain.RoleMember}

	var messes []domain.Mess
	var bazars []domain.Bazar

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		profile, err := fromEnvelope(m.Up.CurrentUser(gctx, token))
		if err != nil {
			return err
		}
		out.Profile = profile
		return nil
	})
	g.Go(func() error {
		data, err := fromEnvelope(m.Up.ListMess(gctx, token))
		if err != nil {
			return err
		}
		messes = data
		return nil
	})
	g.Go(func() error {
		data, err := fromEnvelope(m.Up.ListAllBazars(gctx, token))
		if err != nil {
			return err
		}
		bazars = data
		return nil
	})
	if err := g.Wait(); err != nil {
		return memberDashboard{}, err
	}

	out.Messes = memberMesses(claims.UID, messes)
	out.History = submittedBy(claims.UID, bazars)
	return out, nil
}

func buildBudgetReport(managerID string, messes []domain.Mess, bazars []domain.Bazar) []domain.BudgetReport {
	spent := map[string]float64{}
	pending := map[string]float64{}
	for _, b := range bazars {
		if b.Approved {
			spent[b.MessID] += b.Total
		} else {
			pending[b.MessID] += b.Total
		}
	}

	report := []domain.BudgetReport{}
	for _, ms := range messes {
		if ms.Manager != managerID {
			continue
		}
		report = append(report, domain.BudgetReport{
			MessID:    ms.ID,
			MessName:  ms.Name,
			Budget:    ms.MonthlyBudget,
			Spent:     utils.Round2(spent[ms.ID]),
			Pending:   utils.Round2(pending[ms.ID]),
			Remaining: utils.Round2(ms.MonthlyBudget - spent[ms.ID]),
		})
	}
	return report
}

func pendingOnly(bazars []domain.Bazar) []domain.Bazar {
	out := []domain.Bazar{}
	for _, b := range bazars {
		if !b.Approved {
			out = append(out, b)
		}
	}
	return out
}

func memberMesses(uid string, messes []domain.Mess) []domain.Mess {
	out := []domain.Mess{}
	for _, ms := range messes {
		for _, id := range ms.Members {
			if id == uid {
				out = append(out, ms)
				break
			}
		}
	}
	return out
}

func submittedBy(uid string, bazars []domain.Bazar) []domain.Bazar {
	out := []domain.Bazar{}
	for _, b := range bazars {
		if b.SubmittedBy == uid {
			out = append(out, b)
		}
	}
	return out
}
