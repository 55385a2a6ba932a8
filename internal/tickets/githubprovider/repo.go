package githubprovider

import (
	"fmt"
	"strconv"
	"strings"
)

func splitRepo(repo string) (owner, name string, err error) {
	parts := strings.SplitN(repo, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("githubprovider: repo must be \"owner/name\", got %q", repo)
	}
	return parts[0], parts[1], nil
}

// splitTicketID expects ticketID in "owner/name#123" form.
func splitTicketID(ticketID string) (owner, name string, number int, err error) {
	repoAndNumber := strings.SplitN(ticketID, "#", 2)
	if len(repoAndNumber) != 2 {
		return "", "", 0, fmt.Errorf("githubprovider: ticket id must be \"owner/name#number\", got %q", ticketID)
	}
	owner, name, err = splitRepo(repoAndNumber[0])
	if err != nil {
		return "", "", 0, err
	}
	number, err = strconv.Atoi(repoAndNumber[1])
	if err != nil {
		return "", "", 0, fmt.Errorf("githubprovider: invalid issue number in %q: %w", ticketID, err)
	}
	return owner, name, number, nil
}
