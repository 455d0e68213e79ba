package wekan

import (
	"fmt"
	"net/http"
	"time"
)

// Board is a proxy for one remote board. The ID is immutable after
// construction; every other field is a snapshot of server state as of the
// last fetch and may go stale until Refresh is called.
type Board struct {
	client *Client

	ID         string
	Title      string
	Slug       string
	Archived   bool
	Stars      int
	Members    []BoardMember
	CreatedAt  time.Time
	ModifiedAt time.Time
	Permission string
	Color      string
	Type       string
	Sort       float64

	SubtasksDefaultBoardID     string
	SubtasksDefaultListID      string
	DateSettingsDefaultBoardID string
	DateSettingsDefaultListID  string

	AllowsSubtasks                  bool
	AllowsAttachments               bool
	AllowsChecklists                bool
	AllowsComments                  bool
	AllowsDescriptionTitle          bool
	AllowsDescriptionText           bool
	AllowsDescriptionTextOnMinicard bool
	AllowsCardNumber                bool
	AllowsActivities                bool
	AllowsLabels                    bool
	AllowsCreator                   bool
	AllowsAssignee                  bool
	AllowsMembers                   bool
	AllowsRequestedBy               bool
	AllowsCardSortingByNumber       bool
	AllowsShowLists                 bool
	AllowsAssignedBy                bool
	AllowsReceivedDate              bool
	AllowsStartDate                 bool
	AllowsEndDate                   bool
	AllowsDueDate                   bool
	AllowsCardCounterList           bool
	AllowsBoardMemberList           bool
	PresentParentTask               string
	IsOvertime                      bool

	labels []labelPayload
}

// BoardMember is one entry of a board's member list.
type BoardMember struct {
	UserID        string `json:"userId"`
	IsAdmin       bool   `json:"isAdmin"`
	IsActive      bool   `json:"isActive"`
	IsNoComments  bool   `json:"isNoComments"`
	IsCommentOnly bool   `json:"isCommentOnly"`
}

type boardPayload struct {
	Title      string         `json:"title"`
	Slug       string         `json:"slug"`
	Archived   bool           `json:"archived"`
	Stars      int            `json:"stars"`
	Members    []BoardMember  `json:"members"`
	CreatedAt  string         `json:"createdAt"`
	ModifiedAt string         `json:"modifiedAt"`
	Permission string         `json:"permission"`
	Color      string         `json:"color"`
	Type       string         `json:"type"`
	Sort       float64        `json:"sort"`
	Labels     []labelPayload `json:"labels"`

	SubtasksDefaultBoardID     string `json:"subtasksDefaultBoardId"`
	SubtasksDefaultListID      string `json:"subtasksDefaultListId"`
	DateSettingsDefaultBoardID string `json:"dateSettingsDefaultBoardId"`
	DateSettingsDefaultListID  string `json:"dateSettingsDefaultListId"`

	AllowsSubtasks                  bool   `json:"allowsSubtasks"`
	AllowsAttachments               bool   `json:"allowsAttachments"`
	AllowsChecklists                bool   `json:"allowsChecklists"`
	AllowsComments                  bool   `json:"allowsComments"`
	AllowsDescriptionTitle          bool   `json:"allowsDescriptionTitle"`
	AllowsDescriptionText           bool   `json:"allowsDescriptionText"`
	AllowsDescriptionTextOnMinicard bool   `json:"allowsDescriptionTextOnMinicard"`
	AllowsCardNumber                bool   `json:"allowsCardNumber"`
	AllowsActivities                bool   `json:"allowsActivities"`
	AllowsLabels                    bool   `json:"allowsLabels"`
	AllowsCreator                   bool   `json:"allowsCreator"`
	AllowsAssignee                  bool   `json:"allowsAssignee"`
	AllowsMembers                   bool   `json:"allowsMembers"`
	AllowsRequestedBy               bool   `json:"allowsRequestedBy"`
	AllowsCardSortingByNumber       bool   `json:"allowsCardSortingByNumber"`
	AllowsShowLists                 bool   `json:"allowsShowLists"`
	AllowsAssignedBy                bool   `json:"allowsAssignedBy"`
	AllowsReceivedDate              bool   `json:"allowsReceivedDate"`
	AllowsStartDate                 bool   `json:"allowsStartDate"`
	AllowsEndDate                   bool   `json:"allowsEndDate"`
	AllowsDueDate                   bool   `json:"allowsDueDate"`
	AllowsCardCounterList           bool   `json:"allowsCardCounterList"`
	AllowsBoardMemberList           bool   `json:"allowsBoardMemberList"`
	PresentParentTask               string `json:"presentParentTask"`
	IsOvertime                      bool   `json:"isOvertime"`
}

// Board fetches the board with the given ID and returns its proxy.
func (c *Client) Board(boardID string) (*Board, error) {
	b := &Board{client: c, ID: boardID}
	if err := b.Refresh(); err != nil {
		return nil, err
	}
	return b, nil
}

// Boards lists the public boards plus the boards of the authenticated
// user, keeping those whose title matches the filter pattern (empty
// pattern keeps everything).
func (c *Client) Boards(titleFilter string) ([]*Board, error) {
	re, err := compileFilter(titleFilter)
	if err != nil {
		return nil, err
	}

	public, err := c.Request(http.MethodGet, "/api/boards", nil)
	if err != nil {
		return nil, err
	}
	private, err := c.Request(http.MethodGet, fmt.Sprintf("/api/users/%s/boards", c.userID), nil)
	if err != nil {
		return nil, err
	}

	boards, err := c.boardsFromList(public)
	if err != nil {
		return nil, err
	}
	privateBoards, err := c.boardsFromList(private)
	if err != nil {
		return nil, err
	}
	boards = append(boards, privateBoards...)

	matched := boards[:0]
	for _, board := range boards {
		if re.MatchString(board.Title) {
			matched = append(matched, board)
		}
	}
	return matched, nil
}

func (c *Client) boardsFromList(body []byte) ([]*Board, error) {
	ids, err := idsFromList(body)
	if err != nil {
		return nil, err
	}
	boards := make([]*Board, 0, len(ids))
	for _, id := range ids {
		board, err := c.Board(id)
		if err != nil {
			return nil, err
		}
		boards = append(boards, board)
	}
	return boards, nil
}

// NewBoard is the creation payload for AddBoard. Owner defaults to the
// authenticated user, Permission to "private".
type NewBoard struct {
	Title         string
	Color         string
	Owner         string
	IsAdmin       bool
	IsActive      bool
	IsNoComments  bool
	IsCommentOnly bool
	Permission    string
}

// AddBoard creates a board and returns its proxy.
func (c *Client) AddBoard(b NewBoard) (*Board, error) {
	owner := b.Owner
	if owner == "" {
		owner = c.userID
	}
	permission := b.Permission
	if permission == "" {
		permission = "private"
	}

	payload := map[string]any{
		"title":         b.Title,
		"owner":         owner,
		"isAdmin":       b.IsAdmin,
		"isActive":      b.IsActive,
		"isNoComments":  b.IsNoComments,
		"isCommentOnly": b.IsCommentOnly,
		"permission":    permission,
		"color":         b.Color,
	}
	body, err := c.Request(http.MethodPost, "/api/boards", payload)
	if err != nil {
		return nil, err
	}
	id, err := idFromResponse(body)
	if err != nil {
		return nil, err
	}
	return c.Board(id)
}

// Refresh refetches the full board representation and resyncs every
// non-ID field.
func (b *Board) Refresh() error {
	var payload boardPayload
	if err := b.client.get(b.path(), &payload); err != nil {
		return err
	}

	if err := requireString("board", b.ID, "title", payload.Title); err != nil {
		return err
	}
	createdAt, err := parseRequiredDate("board", b.ID, "createdAt", payload.CreatedAt)
	if err != nil {
		return err
	}
	modifiedAt, err := parseRequiredDate("board", b.ID, "modifiedAt", payload.ModifiedAt)
	if err != nil {
		return err
	}

	b.Title = payload.Title
	b.Slug = payload.Slug
	b.Archived = payload.Archived
	b.Stars = payload.Stars
	b.Members = payload.Members
	b.CreatedAt = createdAt
	b.ModifiedAt = modifiedAt
	b.Permission = payload.Permission
	b.Color = payload.Color
	b.Type = payload.Type
	b.Sort = payload.Sort
	b.labels = payload.Labels

	b.SubtasksDefaultBoardID = payload.SubtasksDefaultBoardID
	b.SubtasksDefaultListID = payload.SubtasksDefaultListID
	b.DateSettingsDefaultBoardID = payload.DateSettingsDefaultBoardID
	b.DateSettingsDefaultListID = payload.DateSettingsDefaultListID

	b.AllowsSubtasks = payload.AllowsSubtasks
	b.AllowsAttachments = payload.AllowsAttachments
	b.AllowsChecklists = payload.AllowsChecklists
	b.AllowsComments = payload.AllowsComments
	b.AllowsDescriptionTitle = payload.AllowsDescriptionTitle
	b.AllowsDescriptionText = payload.AllowsDescriptionText
	b.AllowsDescriptionTextOnMinicard = payload.AllowsDescriptionTextOnMinicard
	b.AllowsCardNumber = payload.AllowsCardNumber
	b.AllowsActivities = payload.AllowsActivities
	b.AllowsLabels = payload.AllowsLabels
	b.AllowsCreator = payload.AllowsCreator
	b.AllowsAssignee = payload.AllowsAssignee
	b.AllowsMembers = payload.AllowsMembers
	b.AllowsRequestedBy = payload.AllowsRequestedBy
	b.AllowsCardSortingByNumber = payload.AllowsCardSortingByNumber
	b.AllowsShowLists = payload.AllowsShowLists
	b.AllowsAssignedBy = payload.AllowsAssignedBy
	b.AllowsReceivedDate = payload.AllowsReceivedDate
	b.AllowsStartDate = payload.AllowsStartDate
	b.AllowsEndDate = payload.AllowsEndDate
	b.AllowsDueDate = payload.AllowsDueDate
	b.AllowsCardCounterList = payload.AllowsCardCounterList
	b.AllowsBoardMemberList = payload.AllowsBoardMemberList
	b.PresentParentTask = payload.PresentParentTask
	b.IsOvertime = payload.IsOvertime

	return nil
}

// Equal reports structural identity: two Board proxies are equal when
// they name the same server-side board, regardless of snapshot content.
func (b *Board) Equal(other *Board) bool {
	return other != nil && b.ID == other.ID
}

func (b *Board) path() string {
	return fmt.Sprintf("/api/boards/%s", b.ID)
}

// BoardEdit carries the fields of a partial board update; nil fields are
// left untouched on the server.
type BoardEdit struct {
	Title      *string
	Color      *string
	Permission *string
}

func (e BoardEdit) payload() map[string]any {
	payload := map[string]any{}
	if e.Title != nil {
		payload["title"] = *e.Title
	}
	if e.Color != nil {
		payload["color"] = *e.Color
	}
	if e.Permission != nil {
		payload["permission"] = *e.Permission
	}
	return payload
}

// Edit sends a partial update without resyncing local fields.
func (b *Board) Edit(edit BoardEdit) error {
	payload := edit.payload()
	if len(payload) == 0 {
		return nil
	}
	_, err := b.client.Request(http.MethodPut, b.path(), payload)
	return err
}

// Update sends a partial update and refetches the board so local fields
// match server state.
func (b *Board) Update(edit BoardEdit) error {
	if err := b.Edit(edit); err != nil {
		return err
	}
	return b.Refresh()
}

// Delete removes the board on the server. The proxy keeps its last
// snapshot.
func (b *Board) Delete() error {
	_, err := b.client.Request(http.MethodDelete, b.path(), nil)
	return err
}

// Export returns the server's full board export.
func (b *Board) Export() ([]byte, error) {
	return b.client.Request(http.MethodGet, b.path()+"/export", nil)
}

// AddMember adds a user to the board.
func (b *Board) AddMember(userID string, isAdmin, isNoComments, isCommentOnly bool) error {
	payload := map[string]any{
		"action":        "add",
		"isAdmin":       isAdmin,
		"isNoComments":  isNoComments,
		"isCommentOnly": isCommentOnly,
	}
	_, err := b.client.Request(http.MethodPost, fmt.Sprintf("%s/members/%s/add", b.path(), userID), payload)
	return err
}

// RemoveMember removes a user from the board.
func (b *Board) RemoveMember(userID string) error {
	payload := map[string]any{"action": "remove"}
	_, err := b.client.Request(http.MethodPost, fmt.Sprintf("%s/members/%s/remove", b.path(), userID), payload)
	return err
}

// ChangeMemberPermission updates a member's board permissions.
func (b *Board) ChangeMemberPermission(userID string, isAdmin, isNoComments, isCommentOnly bool) error {
	payload := map[string]any{
		"isAdmin":       isAdmin,
		"isNoComments":  isNoComments,
		"isCommentOnly": isCommentOnly,
	}
	_, err := b.client.Request(http.MethodPost, fmt.Sprintf("%s/members/%s", b.path(), userID), payload)
	return err
}
