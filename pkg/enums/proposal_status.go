package enums

import "slices"

// ProposalStatus tracks a client proposal from drafting to the client's answer.
type ProposalStatus string

const (
	ProposalStatusDraft    ProposalStatus = "draft"
	ProposalStatusSent     ProposalStatus = "sent"
	ProposalStatusAccepted ProposalStatus = "accepted"
	ProposalStatusRejected ProposalStatus = "rejected"
)

var validProposalStatuses = []ProposalStatus{
	ProposalStatusDraft,
	ProposalStatusSent,
	ProposalStatusAccepted,
	ProposalStatusRejected,
}

var proposalTransitions = map[ProposalStatus][]ProposalStatus{
	ProposalStatusDraft:    {ProposalStatusSent},
	ProposalStatusSent:     {ProposalStatusAccepted, ProposalStatusRejected},
	ProposalStatusRejected: {ProposalStatusDraft},
}

func (s ProposalStatus) IsValid() bool {
	return slices.Contains(validProposalStatuses, s)
}

func (s ProposalStatus) CanTransitionTo(next ProposalStatus) bool {
	return slices.Contains(proposalTransitions[s], next)
}

func ParseProposalStatus(value string) (ProposalStatus, error) {
	return parse(validProposalStatuses, value, "proposal status")
}
