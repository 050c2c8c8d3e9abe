// Package yoga holds the static catalog of sleep-inducing poses shown next to
// the dashboard.
package yoga

// Pose is one catalog entry. ImagePath is relative to the UI's static root.
type Pose struct {
	ID        int    `json:"id"`
	Title     string `json:"title"`
	Benefit   string `json:"benefit"`
	ImagePath string `json:"image_path"`
}

var poses = []Pose{
	{1, "Child’s Pose", "Calms the nervous system, reduces anxiety, helps fall asleep faster.", "/yoga/childs_pose.png"},
	{2, "Legs Up the Wall", "Lowers heart rate, reduces insomnia, deeply relaxing.", "/yoga/legs_up_wall.jpg"},
	{3, "Corpse Pose", "Deep relaxation, improves sleep quality, reduces stress hormones.", "/yoga/corpse_pose.png"},
	{4, "Reclining Bound Angle", "Relaxes hips, reduces emotional stress, supports deep breathing.", "/yoga/reclining_bound_angle.png"},
	{5, "Cat–Cow Pose", "Releases spinal tension, synchronizes breath, reduces restlessness.", "/yoga/cat_cow.jpg"},
	{6, "Standing Forward Bend", "Soothes the brain, quiets racing thoughts, eases anxiety.", "/yoga/standing_forward_bend.png"},
	{7, "Happy Baby Pose", "Relaxes lower back, releases hips, improves sleep comfort.", "/yoga/happy_baby.png"},
	{8, "Bridge Pose", "Reduces fatigue, calms nervous system, eases mild insomnia.", "/yoga/bridge_pose.png"},
	{9, "Supine Spinal Twist", "Releases spine, improves digestion, induces calmness.", "/yoga/supine_spinal_twist.png"},
	{10, "Butterfly Pose", "Relaxes pelvic region, reduces stress, prepares body for sleep.", "/yoga/butterfly_pose.png"},
	{11, "Thread-the-Needle Pose", "Releases shoulder and neck tension, calms the nervous system, reduces stress-related sleep disturbances.", "/yoga/thread_needle.png"},
	{12, "Reclined Figure-Four Pose", "Relieves hip and lower-back tightness, improves blood circulation, helps the body settle into rest.", "/yoga/reclined_figure_four.png"},
	{13, "Supported Bridge Pose", "Opens chest and improves breathing, reduces fatigue and mild anxiety, encourages deeper, calmer sleep.", "/yoga/supported_bridge.png"},
	{14, "Side-Lying Relaxation Pose", "Encourages side-sleeping, calms nervous system, useful for people who cannot sleep on the back.", "/yoga/side_lying.png"},
	{15, "Reclining Hero Pose", "Deeply relaxes thighs and abdomen, slows breathing and heart rate, helpful for insomnia caused by stress.", "/yoga/reclining_hero.png"},
	{16, "Knees-to-Chest Pose", "Relaxes lower back and spine, improves digestion before bedtime, reduces restlessness and bloating.", "/yoga/knees_to_chest.png"},
}

// Poses returns a copy of the catalog in display order.
func Poses() []Pose {
	out := make([]Pose, len(poses))
	copy(out, poses)
	return out
}

// ByID looks up a pose.
func ByID(id int) (Pose, bool) {
	for _, p := range poses {
		if p.ID == id {
			return p, true
		}
	}
	return Pose{}, false
}
