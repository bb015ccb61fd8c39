package service

import (
	"sort"
	"strings"

	"github.com/chereanbot/legalaid-server/cmd/internal/domain/entity"
	"github.com/chereanbot/legalaid-server/cmd/internal/utils"
	"github.com/chereanbot/legalaid-server/cmd/internal/utils/apierror"
	"github.com/labstack/gommon/log"
)

type AssignmentResult struct {
	CaseID          int    `json:"case_id"`
	ReferenceNumber string `json:"reference_number"`
	LawyerID        int    `json:"lawyer_id"`
	LawyerName      string `json:"lawyer_name"`
}

type AutoAssignResponse struct {
	Assigned []*AssignmentResult `json:"assigned"`
	// Cases left pending because no active lawyer in the office covers
	// their category.
	Skipped []int `json:"skipped"`
}

type DefaultAssignmentService struct {
	CaseRepo CaseRepository
	UserRepo UserRepository
}

func NewAssignmentService(caseRepo CaseRepository, userRepo UserRepository) *DefaultAssignmentService {
	return &DefaultAssignmentService{CaseRepo: caseRepo, UserRepo: userRepo}
}

// AutoAssign walks the coordinator's unassigned cases oldest first and gives
// each one to the least-loaded active lawyer in the office whose
// specializations cover the case category. Name breaks caseload ties so runs
// are deterministic.
func (s *DefaultAssignmentService) AutoAssign(subId string) (*AutoAssignResponse, apierror.ErrorResponse) {
	caller, err := s.UserRepo.FindBySub(subId)
	if err != nil {
		log.Errorf("failed to fetch user %s: %v", subId, err)
		return nil, apierror.InternalServerError
	}
	if caller == nil {
		return nil, apierror.NotFoundError
	}
	if caller.Role != entity.RoleCoordinator && caller.Role != entity.RoleAdmin {
		return nil, apierror.ForbiddenError
	}

	pending, err := s.CaseRepo.FindUnassignedByOffice(caller.OfficeID)
	if err != nil {
		log.Errorf("failed to fetch unassigned cases for office %d: %v", caller.OfficeID, err)
		return nil, apierror.InternalServerError
	}

	lawyers, err := s.UserRepo.FindLawyersByOffice(caller.OfficeID)
	if err != nil {
		log.Errorf("failed to fetch lawyers for office %d: %v", caller.OfficeID, err)
		return nil, apierror.InternalServerError
	}

	caseload := make(map[int]int64, len(lawyers))
	for _, lawyer := range lawyers {
		count, err := s.CaseRepo.CountOpenByLawyer(lawyer.ID)
		if err != nil {
			log.Errorf("failed to count caseload of lawyer %d: %v", lawyer.ID, err)
			return nil, apierror.InternalServerError
		}
		caseload[lawyer.ID] = count
	}

	resp := &AutoAssignResponse{Assigned: []*AssignmentResult{}, Skipped: []int{}}
	for _, kase := range pending {
		eligible := filterBySpecialization(lawyers, kase.Category)
		if len(eligible) == 0 {
			resp.Skipped = append(resp.Skipped, kase.ID)
			continue
		}

		sort.Slice(eligible, func(i, j int) bool {
			li, lj := eligible[i], eligible[j]
			if caseload[li.ID] != caseload[lj.ID] {
				return caseload[li.ID] < caseload[lj.ID]
			}
			return li.Name < lj.Name
		})
		pick := eligible[0]

		kase.LawyerID = &pick.ID
		kase.Status = entity.CaseAssigned
		kase.UpdatedAt = utils.NowUTC()
		if err := s.CaseRepo.Save(kase); err != nil {
			log.Errorf("failed to assign case %d to lawyer %d: %v", kase.ID, pick.ID, err)
			return nil, apierror.InternalServerError
		}

		caseload[pick.ID]++
		resp.Assigned = append(resp.Assigned, &AssignmentResult{
			CaseID:          kase.ID,
			ReferenceNumber: kase.ReferenceNumber,
			LawyerID:        pick.ID,
			LawyerName:      pick.Name,
		})
	}
	return resp, nil
}

func filterBySpecialization(lawyers []*entity.User, category string) []*entity.User {
	var out []*entity.User
	for _, lawyer := range lawyers {
		for _, spec := range strings.Split(lawyer.Specializations, ",") {
			if strings.EqualFold(strings.TrimSpace(spec), category) {
				out = append(out, lawyer)
				break
			}
		}
	}
	return out
}
