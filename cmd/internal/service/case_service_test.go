package service_test

import (
	"net/http"
	"strings"
	"testing"

	"github.com/chereanbot/legalaid-server/cmd/internal/domain/entity"
	"github.com/chereanbot/legalaid-server/cmd/internal/service"
)

func TestCreateCase(t *testing.T) {
	e := newEnv(t)
	client := e.seedUser(t, "client-1", entity.RoleClient, 1)

	svc := service.NewCaseService(e.cases, e.users, e.validate)
	kase, apierr := svc.CreateCase(&service.CreateCaseRequest{
		Category:    "family",
		Description: "custody dispute",
	}, client.Sub)
	if apierr != nil {
		t.Fatalf("create case: %v", apierr.Message())
	}
	if kase.Status != "PENDING" {
		t.Fatalf("expected PENDING, got %s", kase.Status)
	}
	if !strings.HasPrefix(kase.ReferenceNumber, "LA-") {
		t.Fatalf("unexpected reference number %q", kase.ReferenceNumber)
	}
	if kase.ClientID != client.ID || kase.OfficeID != client.OfficeID {
		t.Fatalf("case not attached to client: %+v", kase)
	}
}

func TestCreateCaseByCoordinatorNeedsClientID(t *testing.T) {
	e := newEnv(t)
	coord := e.seedUser(t, "coord-1", entity.RoleCoordinator, 1)
	client := e.seedUser(t, "client-1", entity.RoleClient, 1)

	svc := service.NewCaseService(e.cases, e.users, e.validate)

	_, apierr := svc.CreateCase(&service.CreateCaseRequest{Category: "family"}, coord.Sub)
	if apierr == nil || apierr.Code() != http.StatusBadRequest {
		t.Fatalf("expected 400 without client_id, got %v", apierr)
	}

	kase, apierr := svc.CreateCase(&service.CreateCaseRequest{ClientID: client.ID, Category: "family"}, coord.Sub)
	if apierr != nil {
		t.Fatalf("create on behalf of client: %v", apierr.Message())
	}
	if kase.ClientID != client.ID {
		t.Fatalf("case attached to wrong client: %+v", kase)
	}
}

func TestAssignLawyer(t *testing.T) {
	e := newEnv(t)
	coord := e.seedUser(t, "coord-1", entity.RoleCoordinator, 1)
	client := e.seedUser(t, "client-1", entity.RoleClient, 1)
	local := e.seedLawyer(t, "lawyer-local", 1, "family")
	remote := e.seedLawyer(t, "lawyer-remote", 2, "family")

	svc := service.NewCaseService(e.cases, e.users, e.validate)
	kase := e.seedCase(t, client, "family")

	if _, apierr := svc.AssignLawyer(kase.ID, remote.ID, coord.Sub); apierr == nil || apierr.Code() != http.StatusConflict {
		t.Fatalf("expected 409 for lawyer outside the office, got %v", apierr)
	}

	assigned, apierr := svc.AssignLawyer(kase.ID, local.ID, coord.Sub)
	if apierr != nil {
		t.Fatalf("assign: %v", apierr.Message())
	}
	if assigned.Status != "ASSIGNED" || assigned.LawyerID == nil || *assigned.LawyerID != local.ID {
		t.Fatalf("assignment not reflected: %+v", assigned)
	}

	// a case that already has a lawyer cannot be re-assigned
	if _, apierr := svc.AssignLawyer(kase.ID, local.ID, coord.Sub); apierr == nil || apierr.Code() != http.StatusConflict {
		t.Fatalf("expected 409 re-assigning, got %v", apierr)
	}
}

func TestCaseStatusFlow(t *testing.T) {
	e := newEnv(t)
	coord := e.seedUser(t, "coord-1", entity.RoleCoordinator, 1)
	client := e.seedUser(t, "client-1", entity.RoleClient, 1)
	lawyer := e.seedLawyer(t, "lawyer-1", 1, "family")

	svc := service.NewCaseService(e.cases, e.users, e.validate)
	kase := e.seedCase(t, client, "family")

	// pending cases cannot jump straight to IN_PROGRESS
	if _, apierr := svc.UpdateCaseStatus(kase.ID, &service.UpdateCaseStatusRequest{Status: "IN_PROGRESS"}, coord.Sub); apierr == nil {
		t.Fatal("expected transition rejection for pending case")
	}

	if _, apierr := svc.AssignLawyer(kase.ID, lawyer.ID, coord.Sub); apierr != nil {
		t.Fatalf("assign: %v", apierr.Message())
	}

	if _, apierr := svc.UpdateCaseStatus(kase.ID, &service.UpdateCaseStatusRequest{Status: "IN_PROGRESS"}, lawyer.Sub); apierr != nil {
		t.Fatalf("start work: %v", apierr.Message())
	}
	closed, apierr := svc.UpdateCaseStatus(kase.ID, &service.UpdateCaseStatusRequest{Status: "CLOSED"}, lawyer.Sub)
	if apierr != nil {
		t.Fatalf("close: %v", apierr.Message())
	}
	if closed.Status != "CLOSED" {
		t.Fatalf("expected CLOSED, got %s", closed.Status)
	}

	// the client cannot drive case status
	reopened := e.seedCase(t, client, "family")
	if _, apierr := svc.AssignLawyer(reopened.ID, lawyer.ID, coord.Sub); apierr != nil {
		t.Fatalf("assign second case: %v", apierr.Message())
	}
	if _, apierr := svc.UpdateCaseStatus(reopened.ID, &service.UpdateCaseStatusRequest{Status: "IN_PROGRESS"}, client.Sub); apierr == nil || apierr.Code() != http.StatusForbidden {
		t.Fatalf("expected 403 for client, got %v", apierr)
	}
}

func TestCaseVisibility(t *testing.T) {
	e := newEnv(t)
	coord := e.seedUser(t, "coord-1", entity.RoleCoordinator, 1)
	clientA := e.seedUser(t, "client-a", entity.RoleClient, 1)
	clientB := e.seedUser(t, "client-b", entity.RoleClient, 1)

	svc := service.NewCaseService(e.cases, e.users, e.validate)
	kase := e.seedCase(t, clientA, "family")
	e.seedCase(t, clientB, "criminal")

	// clients only see their own cases
	own, apierr := svc.GetCases(clientA.Sub)
	if apierr != nil {
		t.Fatalf("client list: %v", apierr.Message())
	}
	if len(own) != 1 || own[0].ID != kase.ID {
		t.Fatalf("client should see exactly their case, got %d", len(own))
	}

	// coordinators see the whole office
	all, apierr := svc.GetCases(coord.Sub)
	if apierr != nil {
		t.Fatalf("coordinator list: %v", apierr.Message())
	}
	if len(all) != 2 {
		t.Fatalf("coordinator should see 2 cases, got %d", len(all))
	}

	// a stranger cannot fetch someone else's case
	if _, apierr := svc.GetCase(kase.ID, clientB.Sub); apierr == nil || apierr.Code() != http.StatusForbidden {
		t.Fatalf("expected 403 for other client, got %v", apierr)
	}
}
